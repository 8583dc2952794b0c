package board

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"OfferBoard/internal/models"
	"OfferBoard/internal/offers"
)

// fakeSource — эндпоинт в памяти.
type fakeSource struct {
	mu        sync.Mutex
	offers    []models.Offer
	nextID    int64
	listErr   error
	createErr error
	deleteErr error
	lists     atomic.Int32
	views     map[int64]int
	block     chan struct{}
}

func newFakeSource(list ...models.Offer) *fakeSource {
	return &fakeSource{offers: list, nextID: 100, views: map[int64]int{}}
}

func (f *fakeSource) List(ctx context.Context) ([]models.Offer, error) {
	f.lists.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Offer(nil), f.offers...), nil
}

func (f *fakeSource) Create(ctx context.Context, d models.Draft) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.offers = append([]models.Offer{{
		ID: f.nextID, Title: d.Title, Description: d.Description,
		Reward: d.Reward, TelegramLink: d.TelegramLink,
	}}, f.offers...)
	return f.nextID, nil
}

func (f *fakeSource) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	out := f.offers[:0]
	for _, o := range f.offers {
		if o.ID != id {
			out = append(out, o)
		}
	}
	f.offers = out
	return nil
}

func (f *fakeSource) CountView(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[id]++
	return nil
}

var taskA = models.Offer{ID: 1, Title: "Task A", Reward: "100₽", Description: "do it", TelegramLink: "https://t.me/task_a"}

func TestLoadOffersReplacesList(t *testing.T) {
	src := newFakeSource(taskA)
	b := New(src, PlainSecret("admin123"))
	st := &State{Offers: []models.Offer{{ID: 99, Title: "stale"}}}

	if err := b.LoadOffers(context.Background(), st); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(st.Offers) != 1 || st.Offers[0].Title != "Task A" || st.Offers[0].Reward != "100₽" {
		t.Fatalf("unexpected offers %+v", st.Offers)
	}
	if st.Empty() {
		t.Fatal("state should not be empty")
	}
}

func TestLoadOffersErrorSetsLoadErr(t *testing.T) {
	src := newFakeSource()
	src.listErr = &offers.Error{Kind: offers.KindNetwork, Op: "list", Err: errors.New("dial tcp: refused")}
	b := New(src, PlainSecret("admin123"))
	st := &State{}

	err := b.LoadOffers(context.Background(), st)
	if err == nil || st.LoadErr == nil {
		t.Fatal("expected load error")
	}
	if !offers.IsNetwork(st.LoadErr) {
		t.Fatalf("expected wrapped network error, got %v", st.LoadErr)
	}
	if !st.Empty() {
		t.Fatal("empty state expected on failed first load")
	}
}

func TestLoadOffersCollapsesConcurrentCalls(t *testing.T) {
	src := newFakeSource(taskA)
	src.block = make(chan struct{})
	b := New(src, PlainSecret("x"))

	var wg sync.WaitGroup
	states := make([]*State, 5)
	for i := range states {
		states[i] = &State{}
		wg.Add(1)
		go func(st *State) {
			defer wg.Done()
			_ = b.LoadOffers(context.Background(), st)
		}(states[i])
	}
	// даём горутинам встать в очередь singleflight
	time.Sleep(50 * time.Millisecond)
	close(src.block)
	wg.Wait()

	if n := src.lists.Load(); n < 1 || n > 5 {
		t.Fatalf("unexpected list calls %d", n)
	}
	for i, st := range states {
		if len(st.Offers) != 1 {
			t.Fatalf("state %d: expected 1 offer, got %d", i, len(st.Offers))
		}
	}
	// копии независимы
	states[0].Offers[0].Title = "changed"
	if states[1].Offers[0].Title != "Task A" {
		t.Fatal("states share the offers slice")
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	tests := []struct {
		name     string
		checker  Checker
		password string
		want     bool
	}{
		{name: "plain match", checker: PlainSecret("admin123"), password: "admin123", want: true},
		{name: "plain mismatch", checker: PlainSecret("admin123"), password: "admin1234"},
		{name: "plain empty input", checker: PlainSecret("admin123"), password: ""},
		{name: "empty secret never matches", checker: PlainSecret(""), password: ""},
		{name: "hash match", checker: HashedSecret(hash), password: "s3cret", want: true},
		{name: "hash mismatch", checker: HashedSecret(hash), password: "admin123"},
		{name: "new checker prefers hash", checker: NewChecker("admin123", string(hash)), password: "admin123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(newFakeSource(), tt.checker)
			st := &State{}
			got := b.Authenticate(st, tt.password)
			if got != tt.want || st.IsAdmin != tt.want {
				t.Fatalf("got %v (IsAdmin=%v), want %v", got, st.IsAdmin, tt.want)
			}
			if len(st.Notices) != 1 {
				t.Fatalf("expected one notice, got %d", len(st.Notices))
			}
			if st.Notices[0].IsError() == tt.want {
				t.Fatalf("unexpected notice level %q", st.Notices[0].Level)
			}
		})
	}
}

func TestCreateOfferClearsDraftAndReloads(t *testing.T) {
	src := newFakeSource(taskA)
	b := New(src, PlainSecret("admin123"))
	st := &State{}
	_ = b.LoadOffers(context.Background(), st)
	if !b.Authenticate(st, "admin123") {
		t.Fatal("login failed")
	}

	draft := models.Draft{Title: "New", Description: "d", Reward: "50₽", TelegramLink: "https://t.me/new"}
	st.Draft = draft
	if err := b.CreateOffer(context.Background(), st, NewToken(), draft); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !st.Draft.IsZero() {
		t.Fatalf("draft not cleared: %+v", st.Draft)
	}
	if len(st.Offers) != 2 || st.Offers[0].Title != "New" {
		t.Fatalf("list not reloaded: %+v", st.Offers)
	}
	last := st.Notices[len(st.Notices)-1]
	if last.IsError() || last.Text != "notice.created" {
		t.Fatalf("unexpected notice %+v", last)
	}
}

func TestCreateOfferRequiresAdmin(t *testing.T) {
	src := newFakeSource()
	b := New(src, PlainSecret("admin123"))
	st := &State{}

	err := b.CreateOffer(context.Background(), st, "", models.Draft{Title: "x"})
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if len(src.offers) != 0 {
		t.Fatal("offer created without admin")
	}
}

func TestCreateOfferFailureKeepsDraft(t *testing.T) {
	src := newFakeSource(taskA)
	src.createErr = &offers.Error{Kind: offers.KindAPI, Op: "create", StatusCode: http.StatusBadRequest}
	b := New(src, PlainSecret("admin123"))
	st := &State{IsAdmin: true}
	draft := models.Draft{Title: "New", Reward: "50₽"}
	token := NewToken()

	err := b.CreateOffer(context.Background(), st, token, draft)
	if err == nil {
		t.Fatal("expected error")
	}
	if st.Draft != draft {
		t.Fatalf("draft lost: %+v", st.Draft)
	}
	n := st.Notices[len(st.Notices)-1]
	if !n.IsError() || n.Text != "notice.create.failed" || n.Detail != "HTTP 400" {
		t.Fatalf("unexpected notice %+v", n)
	}
	if src.lists.Load() != 0 {
		t.Fatal("failed create must not resync")
	}

	// токен освобождён — повтор той же формы проходит
	src.createErr = nil
	if err := b.CreateOffer(context.Background(), st, token, draft); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestCreateOfferRejectsDuplicateToken(t *testing.T) {
	src := newFakeSource()
	b := New(src, PlainSecret("admin123"))
	token := NewToken()
	draft := models.Draft{Title: "Once"}

	if err := b.CreateOffer(context.Background(), &State{IsAdmin: true}, token, draft); err != nil {
		t.Fatalf("first: %v", err)
	}
	st := &State{IsAdmin: true}
	err := b.CreateOffer(context.Background(), st, token, draft)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if len(src.offers) != 1 {
		t.Fatalf("expected one offer, got %d", len(src.offers))
	}
}

func TestWriteErrorNotices(t *testing.T) {
	tests := []struct {
		name string
		err  error
		text string
	}{
		{name: "unauthorized", err: &offers.Error{Kind: offers.KindUnauthorized, StatusCode: 401}, text: "notice.unauthorized"},
		{name: "network", err: &offers.Error{Kind: offers.KindNetwork}, text: "notice.unavailable"},
		{name: "5xx", err: &offers.Error{Kind: offers.KindAPI, StatusCode: 503}, text: "notice.unavailable"},
		{name: "plain", err: errors.New("boom"), text: "notice.delete.failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource(taskA)
			src.deleteErr = tt.err
			b := New(src, PlainSecret("x"))
			st := &State{IsAdmin: true}
			if err := b.DeleteOffer(context.Background(), st, "", 1); err == nil {
				t.Fatal("expected error")
			}
			n := st.Notices[len(st.Notices)-1]
			if !n.IsError() || n.Text != tt.text {
				t.Fatalf("got %+v, want text %q", n, tt.text)
			}
		})
	}
}

func TestDeleteOfferRemovesAfterResync(t *testing.T) {
	other := models.Offer{ID: 2, Title: "B"}
	src := newFakeSource(taskA, other)
	b := New(src, PlainSecret("admin123"))
	st := &State{IsAdmin: true}
	_ = b.LoadOffers(context.Background(), st)

	if err := b.DeleteOffer(context.Background(), st, NewToken(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := st.find(1); ok {
		t.Fatal("offer 1 still listed after delete")
	}
	if _, ok := st.find(2); !ok {
		t.Fatal("offer 2 vanished")
	}
}

func TestLogout(t *testing.T) {
	b := New(newFakeSource(), PlainSecret("admin123"))
	st := &State{IsAdmin: true, Draft: models.Draft{Title: "half"}}
	b.Logout(st)
	if st.IsAdmin || !st.Draft.IsZero() {
		t.Fatalf("logout left state %+v", st)
	}
	if len(st.Notices) != 1 {
		t.Fatalf("expected logout notice")
	}

	// анонимный logout — без уведомлений
	st = &State{}
	b.Logout(st)
	if len(st.Notices) != 0 {
		t.Fatal("anonymous logout should be silent")
	}
}

func TestVisit(t *testing.T) {
	bad := models.Offer{ID: 5, TelegramLink: "javascript:alert(1)"}
	src := newFakeSource(taskA, bad)
	b := New(src, PlainSecret("x"))

	link, err := b.Visit(context.Background(), 1)
	if err != nil {
		t.Fatalf("visit: %v", err)
	}
	if link != taskA.TelegramLink {
		t.Fatalf("unexpected link %q", link)
	}
	if src.views[1] != 1 {
		t.Fatalf("view not counted: %v", src.views)
	}

	if _, err := b.Visit(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := b.Visit(context.Background(), 5); !errors.Is(err, ErrBadLink) {
		t.Fatalf("expected ErrBadLink, got %v", err)
	}
}

func TestSubmissionsExpire(t *testing.T) {
	s := newSubmissions(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if !s.begin("a") {
		t.Fatal("first begin should pass")
	}
	if s.begin("a") {
		t.Fatal("second begin should fail")
	}
	now = now.Add(2 * time.Minute)
	if !s.begin("a") {
		t.Fatal("token should expire")
	}
	if !s.begin("") || !s.begin("") {
		t.Fatal("empty tokens are not guarded")
	}
	if s.len() != 1 {
		t.Fatalf("expected 1 tracked token, got %d", s.len())
	}
}

func TestOutboundURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://t.me/task_a", "https://t.me/task_a"},
		{" http://example.com/x ", "http://example.com/x"},
		{"tg://resolve?domain=foo", "tg://resolve?domain=foo"},
		{"t.me/foo", "https://t.me/foo"},
		{"javascript:alert(1)", ""},
		{"https:///nohost", ""},
		{"/local/path", ""},
		{"//evil.example", ""},
		{"foo", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := OutboundURL(tt.in); got != tt.want {
			t.Errorf("OutboundURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVisitSchemelessLink(t *testing.T) {
	src := newFakeSource(models.Offer{ID: 7, TelegramLink: "t.me/foo"})
	link, err := New(src, PlainSecret("x")).Visit(context.Background(), 7)
	if err != nil {
		t.Fatalf("visit: %v", err)
	}
	if link != "https://t.me/foo" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestCountView(t *testing.T) {
	src := newFakeSource(taskA)
	b := New(src, PlainSecret("x"))
	b.CountView(context.Background(), 1)
	if src.views[1] != 1 {
		t.Fatalf("view not counted: %v", src.views)
	}
}

func TestSubmissionTTLOption(t *testing.T) {
	src := newFakeSource()
	b := New(src, PlainSecret("admin123"), WithSubmissionTTL(time.Minute))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b.subs.now = func() time.Time { return now }

	st := &State{IsAdmin: true}
	if err := b.CreateOffer(context.Background(), st, "tok", models.Draft{Title: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := b.CreateOffer(context.Background(), st, "tok", models.Draft{Title: "a"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate inside ttl, got %v", err)
	}

	now = now.Add(2 * time.Minute)
	if err := b.CreateOffer(context.Background(), st, "tok", models.Draft{Title: "a"}); err != nil {
		t.Fatalf("token should be free after ttl: %v", err)
	}
}
