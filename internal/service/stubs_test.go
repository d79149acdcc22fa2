package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/vendors"
	"github.com/MKhiriev/go-mind-keeper/models"
)

// Ручные заглушки для тестов сервисного слоя: in-memory кеш, удалённое
// хранилище с перехватом вызовов и вендорные клиенты со сценариями ответов.

// ── cache store stub ─────────────────────────────────────────────────────────

type stubCache struct {
	mu      sync.Mutex
	items   []models.Item
	spaces  []models.Space
	pending []models.PendingItem
	prefs   models.Preferences

	loadItemsErr error
	saveItemsErr error

	saveCounts map[string]int
	subs       []func(string)
}

func newStubCache() *stubCache {
	return &stubCache{saveCounts: make(map[string]int)}
}

func (c *stubCache) LoadItems(context.Context) ([]models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadItemsErr != nil {
		return nil, c.loadItemsErr
	}
	return append([]models.Item(nil), c.items...), nil
}

func (c *stubCache) SaveItems(_ context.Context, items []models.Item) error {
	c.mu.Lock()
	if c.saveItemsErr != nil {
		defer c.mu.Unlock()
		return c.saveItemsErr
	}
	c.items = append([]models.Item(nil), items...)
	c.saveCounts["items"]++
	subs := append([]func(string){}, c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn("items")
	}
	return nil
}

func (c *stubCache) LoadSpaces(context.Context) ([]models.Space, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Space(nil), c.spaces...), nil
}

func (c *stubCache) SaveSpaces(_ context.Context, spaces []models.Space) error {
	c.mu.Lock()
	c.spaces = append([]models.Space(nil), spaces...)
	c.saveCounts["spaces"]++
	subs := append([]func(string){}, c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn("spaces")
	}
	return nil
}

func (c *stubCache) LoadPending(context.Context) ([]models.PendingItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.PendingItem(nil), c.pending...), nil
}

func (c *stubCache) SavePending(_ context.Context, pending []models.PendingItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append([]models.PendingItem(nil), pending...)
	c.saveCounts["pending_items"]++
	return nil
}

func (c *stubCache) LoadPreferences(context.Context) (models.Preferences, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs, nil
}

func (c *stubCache) SavePreferences(_ context.Context, prefs models.Preferences) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs = prefs
	return nil
}

func (c *stubCache) Subscribe(fn func(collection string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *stubCache) rawItems() []models.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Item(nil), c.items...)
}

func (c *stubCache) rawSpaces() []models.Space {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Space(nil), c.spaces...)
}

func (c *stubCache) rawPending() []models.PendingItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.PendingItem(nil), c.pending...)
}

// ── remote store stub ────────────────────────────────────────────────────────

type stubRemote struct {
	mu sync.Mutex

	inserted       []models.Item
	updated        []models.Item
	insertedSpaces []models.Space
	updatedSpaces  []models.Space
	upserted       [][]models.Space
	uploads        map[string][]byte

	listItemsResult  []models.Item
	listSpacesResult []models.Space
	findByURLResult  *models.Item

	findByURLErr error
	insertErr    error
	updateErr    error
	upsertErr    error
	uploadErr    error
}

func newStubRemote() *stubRemote {
	return &stubRemote{uploads: make(map[string][]byte)}
}

func (r *stubRemote) SetSession(string) {}

func (r *stubRemote) SignIn(context.Context, string, string) (models.SharedCredential, error) {
	return models.SharedCredential{}, nil
}

func (r *stubRemote) RefreshSession(context.Context, string) (models.SharedCredential, error) {
	return models.SharedCredential{}, nil
}

func (r *stubRemote) ListItems(context.Context, string) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Item(nil), r.listItemsResult...), nil
}

func (r *stubRemote) FindItemByURL(context.Context, string, string) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByURLErr != nil {
		return nil, r.findByURLErr
	}
	return r.findByURLResult, nil
}

func (r *stubRemote) InsertItem(_ context.Context, item models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, item)
	return nil
}

func (r *stubRemote) UpdateItem(_ context.Context, item models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, item)
	return nil
}

func (r *stubRemote) ListSpaces(context.Context, string) ([]models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Space(nil), r.listSpacesResult...), nil
}

func (r *stubRemote) InsertSpace(_ context.Context, space models.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.insertedSpaces = append(r.insertedSpaces, space)
	return nil
}

func (r *stubRemote) UpdateSpace(_ context.Context, space models.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedSpaces = append(r.updatedSpaces, space)
	return nil
}

func (r *stubRemote) UpsertSpaces(_ context.Context, spaces []models.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, append([]models.Space(nil), spaces...))
	return nil
}

func (r *stubRemote) Upload(_ context.Context, bucket, path string, data []byte, _ string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uploadErr != nil {
		return "", r.uploadErr
	}
	r.uploads[bucket+"/"+path] = data
	return "https://cdn.test/" + bucket + "/" + path, nil
}

func (r *stubRemote) Subscribe(context.Context, string) (<-chan models.ChangeEvent, error) {
	ch := make(chan models.ChangeEvent)
	close(ch)
	return ch, nil
}

func (r *stubRemote) insertedItems() []models.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Item(nil), r.inserted...)
}

// ── vendor stubs ─────────────────────────────────────────────────────────────

type stubExtractor struct {
	mu    sync.Mutex
	meta  vendors.Metadata
	err   error
	calls int
}

func (e *stubExtractor) Extract(context.Context, string, string) (vendors.Metadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return vendors.Metadata{}, e.err
	}
	return e.meta, nil
}

// stubTranscriber replays a scripted sequence of job states, repeating the
// last one once the script runs out.
type stubTranscriber struct {
	mu        sync.Mutex
	submitErr error
	script    []vendors.TranscriptJob
	polls     int
}

func (t *stubTranscriber) SubmitJob(context.Context, string) (string, error) {
	if t.submitErr != nil {
		return "", t.submitErr
	}
	return "job-1", nil
}

func (t *stubTranscriber) GetJob(context.Context, string) (vendors.TranscriptJob, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.polls
	t.polls++
	if idx >= len(t.script) {
		idx = len(t.script) - 1
	}
	return t.script[idx], nil
}

type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(context.Context, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

type stubSocial struct {
	canonical string
	post      vendors.SocialPost
	err       error
}

func (s *stubSocial) ResolveRedirect(_ context.Context, shortURL string) (string, error) {
	if s.canonical != "" {
		return s.canonical, nil
	}
	return shortURL, nil
}

func (s *stubSocial) FetchPost(context.Context, string) (vendors.SocialPost, error) {
	if s.err != nil {
		return vendors.SocialPost{}, s.err
	}
	return s.post, nil
}

// ── shared queue / auth stubs ────────────────────────────────────────────────

type stubQueue struct {
	mu      sync.Mutex
	entries []models.PendingItem
}

func (q *stubQueue) Enqueue(_ context.Context, item models.PendingItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, item)
	return nil
}

func (q *stubQueue) Drain(context.Context) ([]models.PendingItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.entries
	q.entries = nil
	return drained, nil
}

func (q *stubQueue) Clear(context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	return nil
}

func (q *stubQueue) Path() string { return "stub-queue" }

type stubAuth struct {
	cred *models.SharedCredential
	err  error
}

func (a *stubAuth) Save(_ context.Context, cred models.SharedCredential) error {
	a.cred = &cred
	return nil
}

func (a *stubAuth) Get(context.Context) (*models.SharedCredential, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.cred, nil
}

func (a *stubAuth) GetRaw(ctx context.Context) (*models.SharedCredential, error) {
	return a.Get(ctx)
}

func (a *stubAuth) Clear(context.Context) error {
	a.cred = nil
	return nil
}

// ── wiring helpers ───────────────────────────────────────────────────────────

func testVendors(extractor *stubExtractor, transcriber *stubTranscriber, summarizer *stubSummarizer, social *stubSocial) PipelineVendors {
	return PipelineVendors{
		Primary:     extractor,
		Fallback:    extractor,
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Social:      social,
	}
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}

func newTestEngine(cache *stubCache, remote *stubRemote) SyncEngine {
	engine := NewSyncEngine(cache, remote, logger.Nop())
	engine.SetUser("user-1")
	return engine
}
