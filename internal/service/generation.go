package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

var (
	ErrNoFlags     = errors.New("at least one generation flag is required")
	ErrJobTerminal = errors.New("job already reached a terminal status")
)

// GenerationService owns generation jobs: it creates them, runs them on
// background goroutines and transitions their status. Every job is tied to
// a cancellable context so an operator (or shutdown) can stop it.
type GenerationService struct {
	db      *gorm.DB
	recipes *RecipeService
	images  ImageGenerator
	text    TextGenerator

	// limiter throttles calls to the upstream generation APIs across all
	// concurrently running jobs.
	limiter *rate.Limiter

	root       context.Context
	cancelRoot context.CancelFunc

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
	wg      sync.WaitGroup
}

// NewGenerationService creates a new GenerationService. images and text may
// be nil, in which case the corresponding flags fail with a logged error
// instead of crashing the job.
func NewGenerationService(db *gorm.DB, recipes *RecipeService, images ImageGenerator, text TextGenerator) *GenerationService {
	root, cancel := context.WithCancel(context.Background())
	return &GenerationService{
		db:         db,
		recipes:    recipes,
		images:     images,
		text:       text,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		root:       root,
		cancelRoot: cancel,
		cancels:    make(map[uuid.UUID]context.CancelFunc),
	}
}

// SetRateLimit tunes the upstream API call rate. Safe to call while jobs
// are running; in-flight waits keep the old limiter.
func (s *GenerationService) SetRateLimit(r rate.Limit, burst int) {
	s.mu.Lock()
	s.limiter = rate.NewLimiter(r, burst)
	s.mu.Unlock()
}

// StartSpecific creates and starts a job for a single recipe addressed by
// name.
func (s *GenerationService) StartSpecific(ctx context.Context, req *types.StartSpecificGenerationRequest) (*models.GenerationJob, error) {
	if !req.GenerationFlags.Any() {
		return nil, ErrNoFlags
	}

	recipe, err := s.recipes.GetRecipeByName(ctx, req.RecipeName)
	if err != nil {
		return nil, fmt.Errorf("recipe %q not found: %w", req.RecipeName, err)
	}

	job := s.newJob(models.JobTypeSpecific, req.GenerationFlags)
	job.RecipeID = &recipe.ID
	job.RecipeName = recipe.Name

	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}

	s.launch(job)
	return job, nil
}

// StartMass creates and starts a job over every incomplete recipe, up to
// req.Limit recipes when the limit is positive.
func (s *GenerationService) StartMass(ctx context.Context, req *types.StartMassGenerationRequest) (*models.GenerationJob, error) {
	if !req.GenerationFlags.Any() {
		return nil, ErrNoFlags
	}

	job := s.newJob(models.JobTypeMass, req.GenerationFlags)
	job.ProcessedCount = 0

	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}

	s.launch(job, req.Limit)
	return job, nil
}

func (s *GenerationService) newJob(jobType string, flags models.GenerationFlags) *models.GenerationJob {
	return &models.GenerationJob{
		ID:            uuid.New(),
		JobType:       jobType,
		Status:        models.JobStatusPending,
		FixMainImage:  flags.MainImage,
		FixIngrImage:  flags.IngredientsImage,
		FixStepImages: flags.StepImages,
		FixStepText:   flags.StepText,
		FixIngrText:   flags.IngredientText,
	}
}

// launch registers a cancel func for the job and runs it in the background.
func (s *GenerationService) launch(job *models.GenerationJob, massLimit ...int) {
	jobCtx, cancel := context.WithCancel(s.root)

	s.mu.Lock()
	s.cancels[job.ID] = cancel
	s.mu.Unlock()

	limit := 0
	if len(massLimit) > 0 {
		limit = massLimit[0]
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			cancel()
			s.mu.Lock()
			delete(s.cancels, job.ID)
			s.mu.Unlock()
		}()
		s.run(jobCtx, job, limit)
	}()
}

// CancelJob cancels a non-terminal job. The runner observes the cancelled
// context and records the terminal status itself; if the runner is already
// gone the status is forced here.
func (s *GenerationService) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	var job models.GenerationJob
	if err := s.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		return ErrJobTerminal
	}

	s.mu.Lock()
	cancel, running := s.cancels[jobID]
	s.mu.Unlock()

	if running {
		cancel()
		return nil
	}

	return s.finishJob(context.Background(), jobID, models.JobStatusCancelled, "cancelled by operator")
}

// Shutdown cancels every running job and waits for the runners to finish.
func (s *GenerationService) Shutdown() {
	s.cancelRoot()
	s.wg.Wait()
}

// ListJobs returns the most recent jobs, newest first.
func (s *GenerationService) ListJobs(ctx context.Context, limit int) ([]models.GenerationJob, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var jobs []models.GenerationJob
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// LatestJob returns the most recently created job.
func (s *GenerationService) LatestJob(ctx context.Context) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := s.db.WithContext(ctx).Order("created_at DESC").First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob returns a job by id.
func (s *GenerationService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := s.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// JobLogs returns the logs for a job with ids greater than after, oldest
// first. Pollers pass the last id they saw to fetch only new lines.
func (s *GenerationService) JobLogs(ctx context.Context, jobID uuid.UUID, after uint) ([]models.RegenerationLog, error) {
	var logs []models.RegenerationLog
	if err := s.db.WithContext(ctx).
		Where("job_id = ? AND id > ?", jobID, after).
		Order("id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// run executes a job to a terminal status.
func (s *GenerationService) run(ctx context.Context, job *models.GenerationJob, massLimit int) {
	now := time.Now()
	if err := s.db.Model(&models.GenerationJob{}).
		Where("id = ? AND status = ?", job.ID, models.JobStatusPending).
		Updates(map[string]interface{}{"status": models.JobStatusRunning, "started_at": now}).Error; err != nil {
		log.Printf("[GenerationService] Failed to mark job %s running: %v", job.ID, err)
		return
	}

	flags := job.Flags()
	s.appendLog(job.ID, models.LogLevelInfo, fmt.Sprintf("Job started (%s)", job.JobType))

	var recipes []models.Recipe
	var err error
	if job.JobType == models.JobTypeSpecific {
		var recipe *models.Recipe
		recipe, err = s.recipes.GetRecipe(ctx, *job.RecipeID)
		if recipe != nil {
			recipes = []models.Recipe{*recipe}
		}
	} else {
		query := s.db.WithContext(ctx).Where("is_complete = ?", false).Order("name ASC")
		if massLimit > 0 {
			query = query.Limit(massLimit)
		}
		err = query.Find(&recipes).Error
	}
	if err != nil {
		// A cancellation landing during the load is not a failure.
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			s.appendLog(job.ID, models.LogLevelWarning, "Job cancelled")
			_ = s.finishJob(context.Background(), job.ID, models.JobStatusCancelled, "cancelled by operator")
			return
		}
		s.appendLog(job.ID, models.LogLevelError, fmt.Sprintf("Failed to load recipes: %v", err))
		_ = s.finishJob(context.Background(), job.ID, models.JobStatusFailed, err.Error())
		return
	}

	if len(recipes) == 0 {
		s.appendLog(job.ID, models.LogLevelWarning, "No recipes to process")
		_ = s.finishJob(context.Background(), job.ID, models.JobStatusCompleted, "")
		return
	}

	processed, failed := 0, 0
	for i := range recipes {
		if ctx.Err() != nil {
			s.appendLog(job.ID, models.LogLevelWarning, "Job cancelled")
			_ = s.finishJobWithCounts(job.ID, models.JobStatusCancelled, "cancelled by operator", processed, failed)
			return
		}

		recipe := &recipes[i]
		if err := s.processRecipe(ctx, job.ID, recipe, flags); err != nil {
			if errors.Is(err, context.Canceled) {
				s.appendLog(job.ID, models.LogLevelWarning, "Job cancelled")
				_ = s.finishJobWithCounts(job.ID, models.JobStatusCancelled, "cancelled by operator", processed, failed)
				return
			}
			failed++
			s.appendLog(job.ID, models.LogLevelError, fmt.Sprintf("Recipe %s: %v", recipe.Name, err))
		} else {
			processed++
			s.appendLog(job.ID, models.LogLevelSuccess, fmt.Sprintf("Recipe %s processed", recipe.Name))
		}

		_ = s.db.Model(&models.GenerationJob{}).Where("id = ?", job.ID).
			Updates(map[string]interface{}{"processed_count": processed, "failed_count": failed}).Error
	}

	status := models.JobStatusCompleted
	errMsg := ""
	if failed > 0 && processed == 0 {
		status = models.JobStatusFailed
		errMsg = "all recipes failed"
	}
	s.appendLog(job.ID, models.LogLevelInfo,
		fmt.Sprintf("Job finished: %d processed, %d failed", processed, failed))
	_ = s.finishJobWithCounts(job.ID, status, errMsg, processed, failed)
}

// processRecipe applies the requested fixes to a single recipe.
func (s *GenerationService) processRecipe(ctx context.Context, jobID uuid.UUID, recipe *models.Recipe, flags models.GenerationFlags) error {
	textChanged := false

	if flags.IngredientText {
		if err := s.waitForSlot(ctx); err != nil {
			return err
		}
		if s.text == nil {
			return errors.New("text generation is not configured")
		}
		ingredients, err := s.text.GenerateIngredients(ctx, recipe)
		if err != nil {
			return fmt.Errorf("ingredient text: %w", err)
		}
		recipe.Ingredients = ingredients
		s.appendLog(jobID, models.LogLevelInfo, fmt.Sprintf("Recipe %s: regenerated %d ingredients", recipe.Name, len(ingredients)))
	}

	if flags.StepText {
		if err := s.waitForSlot(ctx); err != nil {
			return err
		}
		if s.text == nil {
			return errors.New("text generation is not configured")
		}
		steps, beginner, advanced, err := s.text.GenerateSteps(ctx, recipe)
		if err != nil {
			return fmt.Errorf("step text: %w", err)
		}
		recipe.Steps = steps
		recipe.StepsBeginner = beginner
		recipe.StepsAdvanced = advanced
		textChanged = true
		s.appendLog(jobID, models.LogLevelInfo, fmt.Sprintf("Recipe %s: regenerated %d steps", recipe.Name, len(steps)))
	}

	if flags.MainImage {
		if err := s.waitForSlot(ctx); err != nil {
			return err
		}
		if s.images == nil {
			return errors.New("image generation is not configured")
		}
		url, err := s.images.GenerateMainImage(ctx, recipe)
		if err != nil {
			return fmt.Errorf("main image: %w", err)
		}
		recipe.ImageURL = url
		s.appendLog(jobID, models.LogLevelInfo, fmt.Sprintf("Recipe %s: main image generated", recipe.Name))
	}

	if flags.IngredientsImage {
		if err := s.waitForSlot(ctx); err != nil {
			return err
		}
		if s.images == nil {
			return errors.New("image generation is not configured")
		}
		url, err := s.images.GenerateIngredientsImage(ctx, recipe)
		if err != nil {
			return fmt.Errorf("ingredients image: %w", err)
		}
		recipe.IngredientsImage = url
		s.appendLog(jobID, models.LogLevelInfo, fmt.Sprintf("Recipe %s: ingredients image generated", recipe.Name))
	}

	if flags.StepImages {
		if s.images == nil {
			return errors.New("image generation is not configured")
		}
		urls := make([]string, 0, len(recipe.Steps))
		for i := range recipe.Steps {
			if err := s.waitForSlot(ctx); err != nil {
				return err
			}
			url, err := s.images.GenerateStepImage(ctx, recipe, i)
			if err != nil {
				// A missing step image degrades quality but does not
				// invalidate the rest of the run.
				s.appendLog(jobID, models.LogLevelWarning, fmt.Sprintf("Recipe %s: step %d image failed: %v", recipe.Name, i+1, err))
				continue
			}
			urls = append(urls, url)
		}
		recipe.StepImageURLs = urls
		s.appendLog(jobID, models.LogLevelInfo, fmt.Sprintf("Recipe %s: %d step images generated", recipe.Name, len(urls)))
	}

	updates := map[string]interface{}{
		"ingredients":     recipe.Ingredients,
		"steps":           recipe.Steps,
		"steps_beginner":  recipe.StepsBeginner,
		"steps_advanced":  recipe.StepsAdvanced,
		"image_url":       recipe.ImageURL,
		"ingredients_image": recipe.IngredientsImage,
		"step_image_urls": recipe.StepImageURLs,
	}
	if err := s.db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
		return err
	}

	if recipe.Complete() {
		recipe.ValidationStatus = models.ValidationValidated
	} else {
		recipe.ValidationStatus = models.ValidationNeedsFixing
	}
	if err := s.db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
		Update("validation_status", recipe.ValidationStatus).Error; err != nil {
		return err
	}

	return s.recipes.RefreshDerived(context.Background(), recipe, textChanged)
}

func (s *GenerationService) waitForSlot(ctx context.Context) error {
	s.mu.Lock()
	limiter := s.limiter
	s.mu.Unlock()
	return limiter.Wait(ctx)
}

func (s *GenerationService) finishJob(ctx context.Context, jobID uuid.UUID, status models.JobStatus, errMsg string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&models.GenerationJob{}).
		Where("id = ?", jobID).
		Where("status NOT IN ?", []models.JobStatus{models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled}).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errMsg,
			"completed_at":  now,
		}).Error
}

func (s *GenerationService) finishJobWithCounts(jobID uuid.UUID, status models.JobStatus, errMsg string, processed, failed int) error {
	now := time.Now()
	return s.db.Model(&models.GenerationJob{}).
		Where("id = ?", jobID).
		Where("status NOT IN ?", []models.JobStatus{models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled}).
		Updates(map[string]interface{}{
			"status":          status,
			"error_message":   errMsg,
			"completed_at":    now,
			"processed_count": processed,
			"failed_count":    failed,
		}).Error
}

// appendLog writes one regeneration log line. Failures are logged to the
// process log only; job work never stops because a log line failed.
func (s *GenerationService) appendLog(jobID uuid.UUID, level, message string) {
	entry := models.RegenerationLog{
		JobID:    jobID,
		LogLevel: level,
		Message:  message,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("[GenerationService] Failed to append log for job %s: %v", jobID, err)
	}
}
