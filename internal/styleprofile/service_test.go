package styleprofile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"growth-intel/internal/actionlog"
	"growth-intel/internal/extract"
	local "growth-intel/internal/shared/storage/object/local"
)

func newTestService(t *testing.T, client *fakeClient) (*Service, *MemoryRepo, *actionlog.MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	logs := actionlog.NewMemoryRepo()
	svc := NewService(repo, NewEngine(client, "m"), local.New(t.TempDir()), actionlog.NewRecorder(logs, nil))
	return svc, repo, logs
}

func TestServiceAnalyzeSampleCreatesThenMerges(t *testing.T) {
	client := &fakeClient{replies: []string{
		analysisReply,
		`{"tone":"professional","formalityLevel":9,"commonPhrases":["per our call"],"writingPatterns":{"bullets":"often"}}`,
	}}
	svc, repo, logs := newTestService(t, client)
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return first }

	created, err := svc.AnalyzeSample(context.Background(), "u", "Hey folks!")
	if err != nil {
		t.Fatalf("AnalyzeSample: %v", err)
	}
	if created.ConfidenceScore != 0.7 || created.SamplesAnalyzed != 1 || created.ID == "" {
		t.Fatalf("unexpected new profile %+v", created)
	}

	svc.Now = func() time.Time { return first.Add(time.Hour) }
	merged, err := svc.AnalyzeSample(context.Background(), "u", "Per our call, please find the agenda.")
	if err != nil {
		t.Fatalf("AnalyzeSample merge: %v", err)
	}
	if merged.ID != created.ID {
		t.Fatalf("expected the same profile to be updated")
	}
	if merged.Tone != "professional" || merged.FormalityLevel != 7 || merged.ClosingStyle != "Cheers," {
		t.Fatalf("unexpected merged style %+v", merged.Style)
	}
	if !approxEqual(merged.ConfidenceScore, 0.75) {
		t.Fatalf("expected confidence 0.75, got %v", merged.ConfidenceScore)
	}
	if strings.Join(merged.CommonPhrases, "|") != "circle back|per our call" {
		t.Fatalf("unexpected phrases %v", merged.CommonPhrases)
	}

	stored, _ := repo.Get(context.Background(), "u")
	if !stored.UpdatedAt.Equal(first.Add(time.Hour)) {
		t.Fatalf("expected updatedAt refresh, got %v", stored.UpdatedAt)
	}

	entries, _ := logs.ListByUser(context.Background(), "u", 0)
	if len(entries) != 2 || entries[0].ActionType != actionlog.ActionStyleAnalysis || entries[0].Details["merged"] != true {
		t.Fatalf("unexpected action log %+v", entries)
	}
}

func TestServiceAnalyzeSampleRejectsEmpty(t *testing.T) {
	client := &fakeClient{replies: []string{analysisReply}}
	svc, _, _ := newTestService(t, client)
	if _, err := svc.AnalyzeSample(context.Background(), "u", " \n "); !errors.Is(err, ErrEmptySample) {
		t.Fatalf("expected ErrEmptySample, got %v", err)
	}
	if len(client.requests) != 0 {
		t.Fatalf("expected no completion call for empty input")
	}
}

func TestServiceAnalyzeSampleFailureSavesNothing(t *testing.T) {
	svc, repo, logs := newTestService(t, &fakeClient{replies: []string{"no json at all"}})
	_, err := svc.AnalyzeSample(context.Background(), "u", "Hello")
	if !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	if _, err := repo.Get(context.Background(), "u"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no profile to be saved, got %v", err)
	}
	entries, _ := logs.ListByUser(context.Background(), "u", 0)
	if len(entries) != 0 {
		t.Fatalf("expected no action log entries, got %d", len(entries))
	}
}

func TestServiceAnalyzeUploadArchivesAndExtracts(t *testing.T) {
	client := &fakeClient{replies: []string{analysisReply}}
	svc, _, _ := newTestService(t, client)

	profile, err := svc.AnalyzeUpload(context.Background(), "u", "note.txt", "", strings.NewReader("Hey folks, awesome news!"))
	if err != nil {
		t.Fatalf("AnalyzeUpload: %v", err)
	}
	if profile.Tone != "friendly" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	prompt := client.last(t).Messages[1].Content
	if !strings.Contains(prompt, "Hey folks, awesome news!") {
		t.Fatalf("expected extracted text in prompt")
	}
}

func TestServiceAnalyzeUploadUnsupported(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeClient{replies: []string{analysisReply}})
	svc.Store = nil
	_, err := svc.AnalyzeUpload(context.Background(), "u", "photo.png", "image/png", strings.NewReader("\x89PNG"))
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestServiceMirror(t *testing.T) {
	client := &fakeClient{replies: []string{analysisReply, "  Hey folks, quick one!  "}}
	svc, _, logs := newTestService(t, client)

	if _, err := svc.Mirror(context.Background(), "u", "Please review.", ""); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.AnalyzeSample(context.Background(), "u", "Hey folks!"); err != nil {
		t.Fatalf("AnalyzeSample: %v", err)
	}

	got, err := svc.Mirror(context.Background(), "u", "Please review.", "")
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if got != "Hey folks, quick one!" {
		t.Fatalf("unexpected mirrored text %q", got)
	}

	entries, _ := logs.ListByUser(context.Background(), "u", 1)
	if len(entries) != 1 || entries[0].ActionType != actionlog.ActionStyleMirror || entries[0].Details["targetType"] != "email" {
		t.Fatalf("unexpected action log %+v", entries)
	}
}

func TestServiceMirrorPropagatesCompletionErrors(t *testing.T) {
	client := &fakeClient{replies: []string{analysisReply}}
	svc, _, _ := newTestService(t, client)
	if _, err := svc.AnalyzeSample(context.Background(), "u", "Hey folks!"); err != nil {
		t.Fatalf("AnalyzeSample: %v", err)
	}
	client.err = errors.New("upstream down")

	_, err := svc.Mirror(context.Background(), "u", "Please review.", "email")
	if !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	if _, err := svc.Mirror(context.Background(), "u", "   ", "email"); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}
