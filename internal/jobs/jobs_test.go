package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"webhook-gateway/internal/model"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Info(ctx context.Context, args ...any)                   {}
func (mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Error(ctx context.Context, args ...any)                  {}
func (mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type fakeTokens struct {
	tokens map[string]string
}

func (f *fakeTokens) GetToken(ctx context.Context, account model.Account) (string, bool) {
	tok, ok := f.tokens[account.ID]
	return tok, ok
}

type fakeHost struct {
	collaborators map[string][]string // "owner/repo" -> logins
	repos         map[string]RemoteRepo
	usage         RateUsage
	usageErr      error
}

func (f *fakeHost) Collaborators(ctx context.Context, token, owner, repo string) ([]string, error) {
	logins, ok := f.collaborators[owner+"/"+repo]
	if !ok {
		return nil, errors.New("repository not found")
	}
	return logins, nil
}

func (f *fakeHost) Repository(ctx context.Context, token, owner, repo string) (RemoteRepo, error) {
	r, ok := f.repos[owner+"/"+repo]
	if !ok {
		return RemoteRepo{}, errors.New("repository not found")
	}
	return r, nil
}

func (f *fakeHost) RateLimit(ctx context.Context, token string) (RateUsage, error) {
	if f.usageErr != nil {
		return RateUsage{}, f.usageErr
	}
	return f.usage, nil
}

type recordedEvent struct {
	kind      model.DomainEventKind
	subjectID string
}

type fakeEmitter struct {
	events []recordedEvent
}

func (f *fakeEmitter) Emit(ctx context.Context, kind model.DomainEventKind, subjectID string, extra map[string]string) error {
	f.events = append(f.events, recordedEvent{kind, subjectID})
	return nil
}

type fakeProjects struct {
	projects      []Project
	collaborators map[string][]string
	remotes       map[string]RemoteRepo
}

func (f *fakeProjects) ListProjects(ctx context.Context) ([]Project, error) {
	return f.projects, nil
}

func (f *fakeProjects) SaveCollaborators(ctx context.Context, projectID string, logins []string) error {
	if f.collaborators == nil {
		f.collaborators = make(map[string][]string)
	}
	f.collaborators[projectID] = logins
	return nil
}

func (f *fakeProjects) SaveRemote(ctx context.Context, projectID, cloneURL, defaultBranch string) error {
	if f.remotes == nil {
		f.remotes = make(map[string]RemoteRepo)
	}
	f.remotes[projectID] = RemoteRepo{CloneURL: cloneURL, DefaultBranch: defaultBranch}
	return nil
}

type fakeAccounts struct {
	accounts []model.Account
}

func (f *fakeAccounts) ListActive(ctx context.Context) ([]model.Account, error) {
	return f.accounts, nil
}

type gaugeSample struct {
	name  string
	value float64
	tags  map[string]string
}

type fakeSink struct {
	mu      sync.Mutex
	samples []gaugeSample
}

func (f *fakeSink) Gauge(ctx context.Context, name string, value float64, tags map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, gaugeSample{name, value, tags})
}

func baseProject() Project {
	return Project{
		ID:            "proj-1",
		RepositoryID:  "repo-9",
		Account:       model.Account{ID: "acc-1", Provider: model.ProviderGitHub},
		RepoOwner:     "acme",
		RepoName:      "widgets",
		CloneURL:      "https://github.com/acme/widgets.git",
		DefaultBranch: "main",
		Collaborators: []string{"alice", "bob"},
	}
}

func TestResyncNoDriftEmitsNothing(t *testing.T) {
	p := baseProject()
	host := &fakeHost{
		collaborators: map[string][]string{"acme/widgets": {"bob", "alice"}},
		repos:         map[string]RemoteRepo{"acme/widgets": {CloneURL: p.CloneURL, DefaultBranch: "main"}},
	}
	em := &fakeEmitter{}
	r := NewResync(&fakeProjects{projects: []Project{p}}, &fakeTokens{tokens: map[string]string{"acc-1": "tok"}}, host, em, mockLogger{})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(em.events) != 0 {
		t.Errorf("emitted %d events without drift, want 0", len(em.events))
	}
}

func TestResyncCollaboratorDrift(t *testing.T) {
	p := baseProject()
	host := &fakeHost{
		collaborators: map[string][]string{"acme/widgets": {"alice", "carol"}},
		repos:         map[string]RemoteRepo{"acme/widgets": {CloneURL: p.CloneURL, DefaultBranch: "main"}},
	}
	em := &fakeEmitter{}
	store := &fakeProjects{projects: []Project{p}}
	r := NewResync(store, &fakeTokens{tokens: map[string]string{"acc-1": "tok"}}, host, em, mockLogger{})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(em.events) != 1 {
		t.Fatalf("emitted %d events, want 1", len(em.events))
	}
	if em.events[0].kind != model.EventCollaboratorsChanged || em.events[0].subjectID != "proj-1" {
		t.Errorf("emitted %+v, want collaborators_changed for proj-1", em.events[0])
	}
	if got := store.collaborators["proj-1"]; len(got) != 2 || got[0] != "alice" || got[1] != "carol" {
		t.Errorf("saved collaborators = %v, want [alice carol]", got)
	}
}

func TestResyncRepositoryDrift(t *testing.T) {
	p := baseProject()
	host := &fakeHost{
		collaborators: map[string][]string{"acme/widgets": {"alice", "bob"}},
		repos:         map[string]RemoteRepo{"acme/widgets": {CloneURL: p.CloneURL, DefaultBranch: "trunk"}},
	}
	em := &fakeEmitter{}
	r := NewResync(&fakeProjects{projects: []Project{p}}, &fakeTokens{tokens: map[string]string{"acc-1": "tok"}}, host, em, mockLogger{})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(em.events) != 1 {
		t.Fatalf("emitted %d events, want 1", len(em.events))
	}
	if em.events[0].kind != model.EventRemoteRepositoryChanged || em.events[0].subjectID != "repo-9" {
		t.Errorf("emitted %+v, want remote_repository_changed for repo-9", em.events[0])
	}
}

func TestResyncSkipsProjectWithoutToken(t *testing.T) {
	p := baseProject()
	em := &fakeEmitter{}
	r := NewResync(&fakeProjects{projects: []Project{p}}, &fakeTokens{}, &fakeHost{}, em, mockLogger{})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(em.events) != 0 {
		t.Errorf("emitted %d events for a tokenless project, want 0", len(em.events))
	}
}

func TestRateLimitSampler(t *testing.T) {
	accounts := &fakeAccounts{accounts: []model.Account{
		{ID: "org-1", Provider: model.ProviderGitHub},
		{ID: "org-2", Provider: model.ProviderGitLab},
	}}
	host := &fakeHost{usage: RateUsage{Limit: 5000, Remaining: 4200}}
	sink := &fakeSink{}
	s := NewRateLimitSampler(accounts, &fakeTokens{tokens: map[string]string{"org-1": "tok"}}, host, sink, mockLogger{})

	if err := s.Sample(context.Background()); err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	// One GitHub account gives two gauges; the GitLab account is skipped.
	if len(sink.samples) != 2 {
		t.Fatalf("recorded %d samples, want 2", len(sink.samples))
	}
	remaining := sink.samples[0]
	if remaining.name != gaugeRateLimitRemaining || remaining.value != 4200 {
		t.Errorf("first sample = %+v, want remaining 4200", remaining)
	}
	if remaining.tags["organization"] != "org-1" {
		t.Errorf("sample organization tag = %q, want org-1", remaining.tags["organization"])
	}
}

func TestRateLimitSamplerSkipsFailingAccount(t *testing.T) {
	accounts := &fakeAccounts{accounts: []model.Account{{ID: "org-1", Provider: model.ProviderGitHub}}}
	host := &fakeHost{usageErr: errors.New("rpc failed")}
	sink := &fakeSink{}
	s := NewRateLimitSampler(accounts, &fakeTokens{tokens: map[string]string{"org-1": "tok"}}, host, sink, mockLogger{})

	if err := s.Sample(context.Background()); err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if len(sink.samples) != 0 {
		t.Errorf("recorded %d samples from a failing account, want 0", len(sink.samples))
	}
}

func TestSchedulerRunsTasksAndSurvivesFailure(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	task := Task{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			runs++
			if runs == 1 {
				return errors.New("first run fails")
			}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewScheduler(mockLogger{}, task).Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := runs
		mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("task ran %d times, want at least 3 (runs continue past a failure)", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
