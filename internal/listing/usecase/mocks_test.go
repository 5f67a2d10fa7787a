package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// fakeRepo is an in-memory ListingRepository with the same ordering semantics
// as the production store: creation time descending, id ascending tie-break.
type fakeRepo struct {
	mu          sync.Mutex
	listings    map[string]*domain.Listing
	nextID      int
	createCalls int
	findCalls   int
	findPageErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{listings: make(map[string]*domain.Listing)}
}

func (r *fakeRepo) Create(_ context.Context, listing *domain.Listing) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	r.nextID++
	id := "id-" + strconv.Itoa(r.nextID)
	stored := *listing
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	listing.CreatedAt = stored.CreatedAt
	r.listings[id] = &stored
	return id, nil
}

func (r *fakeRepo) Replace(_ context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listing.ID]; !ok {
		return domain.ErrListingNotFound
	}
	stored := *listing
	r.listings[listing.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	listing, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeRepo) FindPage(_ context.Context, q domain.PageQuery) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findPageErr != nil {
		return nil, r.findPageErr
	}

	var matched []*domain.Listing
	for _, l := range r.listings {
		if matchesFilter(l, q.Filter) {
			copied := *l
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	var page []*domain.Listing
	for _, l := range matched {
		if q.After != nil && !afterAnchor(l, q.After) {
			continue
		}
		page = append(page, l)
		if len(page) == q.Limit {
			break
		}
	}
	return page, nil
}

func matchesFilter(l *domain.Listing, f *domain.Filter) bool {
	if f == nil {
		return true
	}
	switch f.Field {
	case domain.FilterOffer:
		return l.Offer == f.Value.(bool)
	case domain.FilterType:
		return string(l.Type) == f.Value.(string)
	case domain.FilterOwner:
		return l.OwnerRef == f.Value.(string)
	}
	return false
}

func afterAnchor(l *domain.Listing, a *domain.PageAnchor) bool {
	if l.CreatedAt.Before(a.CreatedAt) {
		return true
	}
	return l.CreatedAt.Equal(a.CreatedAt) && l.ID > a.ID
}

type fakeGeocoder struct {
	mu     sync.Mutex
	calls  int
	result *domain.GeocodeResult
	err    error
}

func (g *fakeGeocoder) Resolve(_ context.Context, _ string) (*domain.GeocodeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if g.result != nil {
		return g.result, nil
	}
	return &domain.GeocodeResult{Latitude: 52.52, Longitude: 13.405, FormattedAddress: "Alexanderplatz 1, Berlin"}, nil
}

func (g *fakeGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeStorage answers every upload with a deterministic URL. failOn matches
// against the object key; a matching upload fails with errUploadRejected.
type fakeStorage struct {
	mu     sync.Mutex
	calls  int
	failOn string
}

var errUploadRejected = errors.New("upload rejected")

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string, progress domain.ProgressFunc) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.failOn != "" && strings.Contains(key, s.failOn) {
		return "", errUploadRejected
	}
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	return "https://cdn.test/" + key, nil
}

func (s *fakeStorage) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.Listing
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Listing)}
}

func (c *fakeCache) Get(_ context.Context, id string) (*domain.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	listing, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *listing
	return &copied, nil
}

func (c *fakeCache) Set(_ context.Context, listing *domain.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *listing
	c.entries[listing.ID] = &copied
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

type fakeEvents struct {
	mu       sync.Mutex
	subjects []string
}

func (e *fakeEvents) Publish(_ context.Context, subject string, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subjects = append(e.subjects, subject)
	return nil
}

func (e *fakeEvents) published() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.subjects...)
}

type fakeOwners struct {
	contacts map[string]*domain.OwnerContact
}

func (o *fakeOwners) ContactByID(_ context.Context, ownerID string) (*domain.OwnerContact, error) {
	contact, ok := o.contacts[ownerID]
	if !ok {
		return nil, domain.ErrOwnerNotFound
	}
	return contact, nil
}

type sentMail struct {
	to, listingName, sender, message string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendOwnerMessage(toEmail, listingName, senderEmail, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: toEmail, listingName: listingName, sender: senderEmail, message: message})
	return nil
}

func validInput() domain.SubmissionInput {
	return domain.SubmissionInput{
		Type:         domain.TypeRent,
		Name:         "Sunny two-room flat",
		Bedrooms:     2,
		Bathrooms:    1,
		Furnished:    true,
		RegularPrice: 1200,
		Address:      "Alexanderplatz 1, Berlin",
	}
}

func sampleImages(n int) []domain.ImagePayload {
	names := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf"}
	images := make([]domain.ImagePayload, n)
	for i := 0; i < n; i++ {
		images[i] = domain.ImagePayload{
			FileName:    names[i] + ".jpg",
			ContentType: "image/jpeg",
			Data:        []byte(strings.Repeat("x", 64*(i+1))),
		}
	}
	return images
}
