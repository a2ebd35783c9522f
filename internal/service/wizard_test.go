package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"homestyling/internal/config"
	"homestyling/internal/model"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store := NewSessionStore(time.Hour, time.Hour)
	t.Cleanup(store.Close)
	return store
}

func newTestBackend(t *testing.T, handler http.Handler) *BackendClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBackendClient(&config.BackendConfig{
		BaseURL:       server.URL,
		Timeout:       5 * time.Second,
		CSRFPrimePath: "/api/products/",
	}, zap.NewNop())
}

func newTestWizard(t *testing.T, handler http.Handler) *WizardService {
	t.Helper()
	return NewWizardService(newTestStore(t), newTestBackend(t, handler), zap.NewNop())
}

func answer(t *testing.T, svc *WizardService, id, field, value string) *model.WizardState {
	t.Helper()
	state, err := svc.ApplyAnswer(id, &model.AnswerEvent{Field: field, Value: value})
	if err != nil {
		t.Fatalf("ApplyAnswer(%s=%s) failed: %v", field, value, err)
	}
	return state
}

func TestIsStepValid(t *testing.T) {
	petYes := true

	tests := []struct {
		name    string
		step    int
		answers model.OnboardingAnswers
		want    bool
	}{
		{"step1 empty", 1, model.OnboardingAnswers{}, false},
		{"step1 answered", 1, model.OnboardingAnswers{Vibe: model.VibeModern}, true},
		{"step2 missing pet", 2, model.OnboardingAnswers{HouseholdSize: "2인"}, false},
		{"step2 answered", 2, model.OnboardingAnswers{HouseholdSize: "2인", HasPet: &petYes}, true},
		{"step3 no spaces", 3, model.OnboardingAnswers{HousingType: model.HousingApartment}, false},
		{"step3 with space", 3, model.OnboardingAnswers{HousingType: model.HousingApartment, MainSpaces: []string{model.SpaceLiving}}, true},
		{"step3 studio needs no space", 3, model.OnboardingAnswers{HousingType: model.HousingStudio}, true},
		{"step4 kitchen needs cooking", 4, model.OnboardingAnswers{MainSpaces: []string{model.SpaceKitchen}}, false},
		{"step4 kitchen with cooking", 4, model.OnboardingAnswers{MainSpaces: []string{model.SpaceKitchen}, Cooking: "often"}, true},
		{"step4 dressing needs laundry", 4, model.OnboardingAnswers{MainSpaces: []string{model.SpaceDressing}}, false},
		{"step4 living needs media", 4, model.OnboardingAnswers{MainSpaces: []string{model.SpaceLiving}}, false},
		{"step4 studio implies everything", 4, model.OnboardingAnswers{HousingType: model.HousingStudio}, false},
		{"step4 no implied question", 4, model.OnboardingAnswers{MainSpaces: []string{}}, true},
		{"step5 needs selection", 5, model.OnboardingAnswers{}, false},
		{"step5 answered", 5, model.OnboardingAnswers{Priority: "design", PriorityList: []string{"design"}}, true},
		{"step6 answered", 6, model.OnboardingAnswers{BudgetLevel: "standard"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStepValid(tt.step, &tt.answers); got != tt.want {
				t.Errorf("IsStepValid(%d) = %v, want %v", tt.step, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	got := ApplyDefaults(model.OnboardingAnswers{
		Vibe:          model.VibeModern,
		HouseholdSize: "2인",
		HousingType:   model.HousingApartment,
		Priority:      "design",
		BudgetLevel:   "standard",
	})

	if len(got.MainSpaces) != 1 || got.MainSpaces[0] != model.SpaceLiving {
		t.Errorf("MainSpaces = %v, want [living]", got.MainSpaces)
	}
	if got.Pyung != model.PyungDefault {
		t.Errorf("Pyung = %d, want %d", got.Pyung, model.PyungDefault)
	}
	if got.Cooking != "sometimes" || got.Laundry != "weekly" || got.Media != "balanced" {
		t.Errorf("lifestyle defaults = %s/%s/%s", got.Cooking, got.Laundry, got.Media)
	}
	if len(got.PriorityList) != 1 || got.PriorityList[0] != "design" {
		t.Errorf("PriorityList = %v, want [design]", got.PriorityList)
	}
	if len(got.SelectedCategories) != 4 {
		t.Errorf("SelectedCategories = %v, want the 4 default categories", got.SelectedCategories)
	}
}

func TestApplyDefaultsDoesNotMutateInput(t *testing.T) {
	in := model.OnboardingAnswers{Vibe: model.VibeModern}
	_ = ApplyDefaults(in)
	if in.Cooking != "" || len(in.MainSpaces) != 0 {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestNextBlockedWhenStepInvalid(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()

	got, _, err := svc.Next(context.Background(), state.SessionID)
	if !errors.Is(err, ErrStepInvalid) {
		t.Fatalf("Next on empty step 1: err = %v, want ErrStepInvalid", err)
	}
	if got.Step != 1 {
		t.Errorf("Step = %d, want 1", got.Step)
	}
}

func TestNextAdvancesWhenValid(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()
	answer(t, svc, state.SessionID, model.FieldVibe, model.VibeModern)

	got, _, err := svc.Next(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got.Step != 2 {
		t.Errorf("Step = %d, want 2", got.Step)
	}
}

func TestBackIsUnconditional(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()
	answer(t, svc, state.SessionID, model.FieldVibe, model.VibeModern)
	if _, _, err := svc.Next(context.Background(), state.SessionID); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	// Step 2 is unanswered but back must still work.
	got, err := svc.Back(state.SessionID)
	if err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if got.Step != 1 {
		t.Errorf("Step = %d, want 1", got.Step)
	}

	if _, err := svc.Back(state.SessionID); !errors.Is(err, ErrAlreadyFirstStep) {
		t.Errorf("Back at step 1: err = %v, want ErrAlreadyFirstStep", err)
	}
}

func TestSkipJumpsToTerminalStep(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()

	got, err := svc.Skip(state.SessionID)
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if got.Step != MaxStep {
		t.Errorf("Step = %d, want %d", got.Step, MaxStep)
	}

	if _, err := svc.Skip(state.SessionID); !errors.Is(err, ErrSkipAtTerminal) {
		t.Errorf("Skip at terminal step: err = %v, want ErrSkipAtTerminal", err)
	}
}

func TestStudioPinsSpacesAndPyung(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()
	id := state.SessionID

	got := answer(t, svc, id, model.FieldHousingType, model.HousingStudio)
	if len(got.Answers.MainSpaces) != 1 || got.Answers.MainSpaces[0] != model.SpaceAll {
		t.Errorf("MainSpaces = %v, want [all]", got.Answers.MainSpaces)
	}
	if got.Answers.Pyung != model.PyungStudio {
		t.Errorf("Pyung = %d, want %d", got.Answers.Pyung, model.PyungStudio)
	}

	if _, err := svc.ApplyAnswer(id, &model.AnswerEvent{Field: model.FieldPyung, Number: 30}); !errors.Is(err, ErrPyungPinned) {
		t.Errorf("pyung edit for studio: err = %v, want ErrPyungPinned", err)
	}
	if _, err := svc.ApplyAnswer(id, &model.AnswerEvent{Field: model.FieldMainSpace, Value: model.SpaceLiving}); !errors.Is(err, ErrSpacesPinned) {
		t.Errorf("space edit for studio: err = %v, want ErrSpacesPinned", err)
	}

	// Switching away from studio unpins both.
	answer(t, svc, id, model.FieldHousingType, model.HousingApartment)
	got, err := svc.ApplyAnswer(id, &model.AnswerEvent{Field: model.FieldPyung, Number: 30})
	if err != nil {
		t.Fatalf("pyung edit after leaving studio failed: %v", err)
	}
	if got.Answers.Pyung != 30 {
		t.Errorf("Pyung = %d, want 30", got.Answers.Pyung)
	}
}

func TestPyungClamped(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()

	got, err := svc.ApplyAnswer(state.SessionID, &model.AnswerEvent{Field: model.FieldPyung, Number: 90})
	if err != nil {
		t.Fatalf("ApplyAnswer failed: %v", err)
	}
	if got.Answers.Pyung != model.PyungMax {
		t.Errorf("Pyung = %d, want clamp to %d", got.Answers.Pyung, model.PyungMax)
	}

	got, _ = svc.ApplyAnswer(state.SessionID, &model.AnswerEvent{Field: model.FieldPyung, Number: 3})
	if got.Answers.Pyung != model.PyungMin {
		t.Errorf("Pyung = %d, want clamp to %d", got.Answers.Pyung, model.PyungMin)
	}
}

func TestAllSpaceIsSingleton(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()
	id := state.SessionID

	answer(t, svc, id, model.FieldMainSpace, model.SpaceLiving)
	answer(t, svc, id, model.FieldMainSpace, model.SpaceKitchen)
	got := answer(t, svc, id, model.FieldMainSpace, model.SpaceAll)
	if len(got.Answers.MainSpaces) != 1 || got.Answers.MainSpaces[0] != model.SpaceAll {
		t.Errorf("MainSpaces = %v, want [all]", got.Answers.MainSpaces)
	}
}

func TestPriorityToggleMirrorsFirstSelection(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()
	id := state.SessionID

	got := answer(t, svc, id, model.FieldPriority, "design")
	if got.Answers.Priority != "design" {
		t.Errorf("Priority = %q, want design", got.Answers.Priority)
	}

	got = answer(t, svc, id, model.FieldPriority, "value")
	if got.Answers.Priority != "design" {
		t.Errorf("Priority = %q, want first selection preserved", got.Answers.Priority)
	}

	// Removing the first selection promotes the next one.
	got = answer(t, svc, id, model.FieldPriority, "design")
	if got.Answers.Priority != "value" {
		t.Errorf("Priority = %q, want value after removal", got.Answers.Priority)
	}

	// Double-toggling restores the empty state.
	got = answer(t, svc, id, model.FieldPriority, "value")
	if got.Answers.Priority != "" || len(got.Answers.PriorityList) != 0 {
		t.Errorf("state after clearing all = %q / %v, want empty", got.Answers.Priority, got.Answers.PriorityList)
	}
}

func TestRestartClearsEverything(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()
	id := state.SessionID

	answer(t, svc, id, model.FieldVibe, model.VibeModern)
	if _, _, err := svc.Next(context.Background(), id); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	got, err := svc.Restart(id)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if got.Step != 1 || got.Answers.Vibe != "" {
		t.Errorf("after restart: step %d vibe %q, want step 1 and empty vibe", got.Step, got.Answers.Vibe)
	}
	if got.Answers.Pyung != model.PyungDefault {
		t.Errorf("Pyung = %d, want %d", got.Answers.Pyung, model.PyungDefault)
	}
}

func TestSubmitRejectsIncompleteAnswers(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())
	state := svc.CreateSession()

	got, _, err := svc.Submit(context.Background(), state.SessionID)
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("Submit with empty answers: err = %v, want ErrMissingRequired", err)
	}
	if got.LastError == "" {
		t.Error("LastError should carry the validation message")
	}
}

// completeAnswers walks a session through all six steps.
func completeAnswers(t *testing.T, svc *WizardService, id string) {
	t.Helper()
	answer(t, svc, id, model.FieldVibe, model.VibeModern)
	answer(t, svc, id, model.FieldHouseholdSize, "2인")
	pet := false
	if _, err := svc.ApplyAnswer(id, &model.AnswerEvent{Field: model.FieldHasPet, Bool: &pet}); err != nil {
		t.Fatalf("ApplyAnswer(has_pet) failed: %v", err)
	}
	answer(t, svc, id, model.FieldHousingType, model.HousingApartment)
	answer(t, svc, id, model.FieldMainSpace, model.SpaceLiving)
	answer(t, svc, id, model.FieldMedia, "balanced")
	answer(t, svc, id, model.FieldPriority, "design")
	answer(t, svc, id, model.FieldPriority, "value")
	answer(t, svc, id, model.FieldBudgetLevel, "standard")
}

func TestSubmitScenario(t *testing.T) {
	var received model.CompleteOnboardingRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-abc"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/api/onboarding/complete/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRFToken") != "tok-abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"portfolio_id":"pf-42"}`))
	})

	svc := newTestWizard(t, mux)
	state := svc.CreateSession()
	id := state.SessionID
	completeAnswers(t, svc, id)

	got, err := svc.Skip(id)
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if got.Step != MaxStep {
		t.Fatalf("Step = %d, want %d", got.Step, MaxStep)
	}

	_, result, err := svc.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.PortfolioID != "pf-42" {
		t.Errorf("PortfolioID = %q, want pf-42", result.PortfolioID)
	}

	if received.HouseholdSize != 2 {
		t.Errorf("household_size = %d, want normalized 2", received.HouseholdSize)
	}
	if received.Priority != "design" {
		t.Errorf("priority = %q, want design (first selection)", received.Priority)
	}
	if received.Cooking != "sometimes" || received.Laundry != "weekly" {
		t.Errorf("lifestyle defaults missing: cooking %q laundry %q", received.Cooking, received.Laundry)
	}
	if received.SessionID == "" || received.SessionID == id {
		t.Errorf("submission id %q must be fresh, not the wizard session id", received.SessionID)
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
	})
	mux.HandleFunc("/api/onboarding/complete/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"추천 엔진 오류"}`))
	})

	svc := newTestWizard(t, mux)
	state := svc.CreateSession()
	id := state.SessionID
	completeAnswers(t, svc, id)

	got, _, err := svc.Submit(context.Background(), id)
	if err == nil {
		t.Fatal("Submit should fail")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %T, want *BackendError", err)
	}
	if backendErr.Detail != "추천 엔진 오류" {
		t.Errorf("Detail = %q", backendErr.Detail)
	}

	// Entered data survives for retry.
	if got.Answers.Vibe != model.VibeModern || got.Answers.BudgetLevel != "standard" {
		t.Errorf("answers lost after failed submit: %+v", got.Answers)
	}
	if got.LastError == "" {
		t.Error("LastError should be set after failed submit")
	}
}

func TestSubmitEmptyResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
	})
	mux.HandleFunc("/api/onboarding/complete/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	svc := newTestWizard(t, mux)
	state := svc.CreateSession()
	completeAnswers(t, svc, state.SessionID)

	_, _, err := svc.Submit(context.Background(), state.SessionID)
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("err = %v, want ErrEmptyResult", err)
	}
}

func TestSubmitBlocksConcurrentSubmit(t *testing.T) {
	var entered sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
	})
	mux.HandleFunc("/api/onboarding/complete/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		entered.Do(func() { close(started) })
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"portfolio_id":"pf-1"}`))
	})

	svc := newTestWizard(t, mux)
	state := svc.CreateSession()
	id := state.SessionID
	completeAnswers(t, svc, id)

	done := make(chan error, 1)
	go func() {
		_, _, err := svc.Submit(context.Background(), id)
		done <- err
	}()

	// With the first submission held open on the wire, a second must bounce.
	<-started
	got, _, err := svc.Submit(context.Background(), id)
	if !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit: err = %v, want ErrSubmitInFlight", err)
	}
	if got == nil || !got.InFlight {
		t.Error("state should report the submission in flight")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("backend saw %d submissions, want 1", n)
	}
}

func TestSessionNotFound(t *testing.T) {
	svc := newTestWizard(t, http.NotFoundHandler())

	if _, err := svc.GetState("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetState: err = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := svc.Next(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Next: err = %v, want ErrSessionNotFound", err)
	}
}
