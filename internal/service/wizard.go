package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homestyling/internal/model"
)

// MaxStep is the terminal wizard step of the canonical 6-question set.
const MaxStep = 6

// Wizard operation errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrStepInvalid      = errors.New("현재 단계의 필수 항목을 선택해주세요.")
	ErrAlreadyFirstStep = errors.New("already at the first step")
	ErrSkipAtTerminal   = errors.New("skip is only available on intermediate steps")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrPyungPinned      = errors.New("원룸은 공간 크기를 직접 수정할 수 없습니다.")
	ErrSpacesPinned     = errors.New("원룸은 주요 공간을 직접 수정할 수 없습니다.")
	ErrMissingRequired  = errors.New("모든 필수 항목을 선택해주세요.")
	ErrEmptyResult      = errors.New("추천 결과를 받지 못했습니다. 다시 시도해주세요.")
)

// WizardService drives the onboarding wizard: per-session answer state, the
// linear step machine, and the completion submission.
type WizardService struct {
	store   *SessionStore
	backend *BackendClient
	logger  *zap.Logger
}

// NewWizardService creates a new wizard service.
func NewWizardService(store *SessionStore, backend *BackendClient, logger *zap.Logger) *WizardService {
	return &WizardService{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// IsStepValid reports whether the given step's required fields are populated.
// Validation never injects defaults; a field counts only when the user
// explicitly answered it.
func IsStepValid(step int, a *model.OnboardingAnswers) bool {
	switch step {
	case 1:
		return a.Vibe != ""
	case 2:
		return a.HouseholdSize != "" && a.HasPet != nil
	case 3:
		if a.HousingType == "" {
			return false
		}
		// Studio forces main_space to the full-home package.
		return a.HousingType == model.HousingStudio || len(a.MainSpaces) > 0
	case 4:
		spaces := a.EffectiveSpaces()
		hasKitchen := containsAny(spaces, model.SpaceKitchen, model.SpaceAll)
		hasDressing := containsAny(spaces, model.SpaceDressing, model.SpaceAll)
		hasMedia := containsAny(spaces, model.SpaceLiving, model.SpaceBedroom, model.SpaceStudy, model.SpaceAll)

		if hasKitchen && a.Cooking == "" {
			return false
		}
		if hasDressing && a.Laundry == "" {
			return false
		}
		if hasMedia && a.Media == "" {
			return false
		}
		// No implied question at all: trivially valid.
		return true
	case 5:
		return a.Priority != "" && len(a.PriorityList) > 0
	case 6:
		return a.BudgetLevel != ""
	default:
		return false
	}
}

// Validate is the submission-time defense in depth: every required scalar
// must be non-empty. It duplicates per-step validation on purpose and never
// mutates the answers.
func Validate(a *model.OnboardingAnswers) error {
	if a.Vibe == "" || a.HouseholdSize == "" || a.HousingType == "" ||
		a.Priority == "" || a.BudgetLevel == "" {
		return ErrMissingRequired
	}
	return nil
}

// ApplyDefaults returns a copy of the answers with submission-time defaults
// injected. This is the only place defaults exist; it runs after Validate.
func ApplyDefaults(a model.OnboardingAnswers) model.OnboardingAnswers {
	if len(a.MainSpaces) == 0 {
		a.MainSpaces = []string{model.SpaceLiving}
	}
	if a.Pyung <= 0 {
		a.Pyung = model.PyungDefault
	}
	if a.Cooking == "" {
		a.Cooking = "sometimes"
	}
	if a.Laundry == "" {
		a.Laundry = "weekly"
	}
	if a.Media == "" {
		a.Media = "balanced"
	}
	if len(a.PriorityList) == 0 && a.Priority != "" {
		a.PriorityList = []string{a.Priority}
	}
	if len(a.SelectedCategories) == 0 {
		a.SelectedCategories = []string{"TV", "KITCHEN", "LIVING", "AIR"}
	}
	return a
}

// CreateSession starts a fresh wizard session at step 1.
func (s *WizardService) CreateSession() *model.WizardState {
	sess := s.store.Create()
	s.logger.Info("wizard session created", zap.String("session_id", sess.ID))
	return s.state(sess)
}

// GetState returns the current session view.
func (s *WizardService) GetState(sessionID string) (*model.WizardState, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.stateLocked(sess), nil
}

// ApplyAnswer applies one form interaction to the session, mutating answer
// state immediately the way the form inputs did.
func (s *WizardService) ApplyAnswer(sessionID string, ev *model.AnswerEvent) (*model.WizardState, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	a := &sess.Answers
	switch ev.Field {
	case model.FieldVibe:
		a.Vibe = ev.Value
	case model.FieldHouseholdSize:
		a.HouseholdSize = ev.Value
	case model.FieldHasPet:
		a.HasPet = ev.Bool
	case model.FieldHousingType:
		a.HousingType = ev.Value
		if ev.Value == model.HousingStudio {
			// Studio pins the space selection and the area value.
			a.MainSpaces = []string{model.SpaceAll}
			a.Pyung = model.PyungStudio
		}
	case model.FieldMainSpace:
		if a.HousingType == model.HousingStudio {
			return nil, ErrSpacesPinned
		}
		if ev.Value == model.SpaceAll {
			a.MainSpaces = []string{model.SpaceAll}
		} else {
			a.MainSpaces = toggleTag(a.MainSpaces, ev.Value)
		}
	case model.FieldPyung:
		if a.HousingType == model.HousingStudio {
			return nil, ErrPyungPinned
		}
		a.Pyung = clampPyung(ev.Number)
	case model.FieldCooking:
		a.Cooking = ev.Value
	case model.FieldLaundry:
		a.Laundry = ev.Value
	case model.FieldMedia:
		a.Media = ev.Value
	case model.FieldPriority:
		a.PriorityList = toggleTag(a.PriorityList, ev.Value)
		if len(a.PriorityList) > 0 {
			a.Priority = a.PriorityList[0]
		} else {
			a.Priority = ""
		}
	case model.FieldBudgetLevel:
		a.BudgetLevel = ev.Value
	case model.FieldCategory:
		a.SelectedCategories = toggleTag(a.SelectedCategories, ev.Value)
	default:
		return nil, fmt.Errorf("unknown answer field: %s", ev.Field)
	}

	return s.stateLocked(sess), nil
}

// Next advances one step when the current step is valid; at the terminal step
// it triggers submission instead.
func (s *WizardService) Next(ctx context.Context, sessionID string) (*model.WizardState, *model.SubmitResult, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	if !IsStepValid(sess.Step, &sess.Answers) {
		state := s.stateLocked(sess)
		sess.mu.Unlock()
		return state, nil, ErrStepInvalid
	}
	if sess.Step < MaxStep {
		sess.Step++
		state := s.stateLocked(sess)
		sess.mu.Unlock()
		return state, nil, nil
	}
	sess.mu.Unlock()

	return s.Submit(ctx, sessionID)
}

// Back moves one step back unconditionally (no validity check).
func (s *WizardService) Back(sessionID string) (*model.WizardState, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Step <= 1 {
		return s.stateLocked(sess), ErrAlreadyFirstStep
	}
	sess.Step--
	return s.stateLocked(sess), nil
}

// Skip jumps directly to the terminal step from any intermediate step.
func (s *WizardService) Skip(sessionID string) (*model.WizardState, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Step >= MaxStep {
		return s.stateLocked(sess), ErrSkipAtTerminal
	}
	sess.Step = MaxStep
	return s.stateLocked(sess), nil
}

// Restart resets the session to step 1 and clears all answers.
func (s *WizardService) Restart(sessionID string) (*model.WizardState, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Step = 1
	sess.Answers = model.OnboardingAnswers{Pyung: model.PyungDefault}
	sess.lastError = ""
	sess.portfolioID = ""
	return s.stateLocked(sess), nil
}

// Submit validates, applies defaults, and POSTs the completed answer set. On
// failure the session keeps its step and answers, and the error message is
// surfaced on the state.
func (s *WizardService) Submit(ctx context.Context, sessionID string) (*model.WizardState, *model.SubmitResult, error) {
	sess := s.store.Get(sessionID)
	if sess == nil {
		return nil, nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.submitInFlight {
		state := s.stateLocked(sess)
		sess.mu.Unlock()
		return state, nil, ErrSubmitInFlight
	}
	if err := Validate(&sess.Answers); err != nil {
		sess.lastError = err.Error()
		state := s.stateLocked(sess)
		sess.mu.Unlock()
		return state, nil, err
	}
	sess.submitInFlight = true
	answers := ApplyDefaults(sess.Answers)
	sess.mu.Unlock()

	// Fresh random id per submission attempt.
	submissionID := uuid.NewString()
	payload := &model.CompleteOnboardingRequest{
		SessionID:          submissionID,
		Vibe:               answers.Vibe,
		HouseholdSize:      model.NormalizeHouseholdSize(answers.HouseholdSize, 2),
		HasPet:             answers.HasPet,
		HousingType:        answers.HousingType,
		MainSpace:          answers.MainSpaces,
		Pyung:              answers.Pyung,
		Cooking:            answers.Cooking,
		Laundry:            answers.Laundry,
		Media:              answers.Media,
		Priority:           answers.Priority,
		PriorityList:       answers.PriorityList,
		BudgetLevel:        answers.BudgetLevel,
		SelectedCategories: answers.SelectedCategories,
	}

	resp, err := s.backend.CompleteOnboarding(ctx, payload)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.submitInFlight = false

	if err != nil {
		sess.lastError = err.Error()
		s.logger.Warn("onboarding submission failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return s.stateLocked(sess), nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "추천 실패"
		}
		sess.lastError = msg
		return s.stateLocked(sess), nil, &BackendError{Detail: msg}
	}

	switch {
	case resp.PortfolioID != "":
		sess.lastError = ""
		sess.portfolioID = resp.PortfolioID
		s.logger.Info("onboarding complete",
			zap.String("session_id", sessionID),
			zap.String("portfolio_id", resp.PortfolioID),
		)
		return s.stateLocked(sess), &model.SubmitResult{
			PortfolioID: resp.PortfolioID,
			InternalKey: resp.InternalKey,
		}, nil
	case len(resp.Recommendations) > 0:
		sess.lastError = ""
		s.logger.Info("onboarding complete with inline recommendations",
			zap.String("session_id", sessionID),
			zap.Int("count", len(resp.Recommendations)),
		)
		return s.stateLocked(sess), &model.SubmitResult{
			InternalKey:     resp.InternalKey,
			Recommendations: resp.Recommendations,
		}, nil
	default:
		sess.lastError = ErrEmptyResult.Error()
		return s.stateLocked(sess), nil, ErrEmptyResult
	}
}

// state locks the session and returns its view.
func (s *WizardService) state(sess *Session) *model.WizardState {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.stateLocked(sess)
}

// stateLocked builds the session view; the caller holds the session lock.
func (s *WizardService) stateLocked(sess *Session) *model.WizardState {
	return &model.WizardState{
		SessionID:   sess.ID,
		Step:        sess.Step,
		MaxStep:     MaxStep,
		StepValid:   IsStepValid(sess.Step, &sess.Answers),
		Answers:     sess.Answers,
		InFlight:    sess.submitInFlight,
		LastError:   sess.lastError,
		PortfolioID: sess.portfolioID,
	}
}

// toggleTag flips membership of tag in the ordered list, preserving the
// order of the remaining entries.
func toggleTag(list []string, tag string) []string {
	for i, t := range list {
		if t == tag {
			return append(append([]string{}, list[:i]...), list[i+1:]...)
		}
	}
	return append(list, tag)
}

func containsAny(list []string, tags ...string) bool {
	for _, t := range list {
		for _, want := range tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

func clampPyung(v int) int {
	if v < model.PyungMin {
		return model.PyungMin
	}
	if v > model.PyungMax {
		return model.PyungMax
	}
	return v
}
