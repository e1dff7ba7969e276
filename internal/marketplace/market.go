package marketplace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

var (
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("marketplace: invalid record")
	// ErrNotFound is returned for unknown ids, including dangling references.
	ErrNotFound = errors.New("marketplace: record not found")
)

// ValidationError lists the fields a form must fix.
type ValidationError struct {
	Kind   Kind
	Fields []apperrors.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(names, ", "))
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func validate(r Record) error {
	if fields := r.Validate(); len(fields) > 0 {
		return &ValidationError{Kind: r.Kind(), Fields: fields}
	}
	return nil
}

// Market stores the marketplace collections in the global keys of a store.
// Creates fail with an error wrapping store.ErrUnreadable rather than save
// over a collection they could not read.
type Market struct {
	store store.Store
	now   func() time.Time

	mu                 sync.Mutex
	projects           collection[Project]
	services           collection[Service]
	proposals          collection[Proposal]
	technicianRequests collection[TechnicianRequest]
}

// New creates a market over s.
func New(s store.Store) *Market {
	return &Market{
		store:              s,
		now:                time.Now,
		projects:           collection[Project]{key: store.KeyProjects, kind: KindProject},
		services:           collection[Service]{key: store.KeyServices, kind: KindService},
		proposals:          collection[Proposal]{key: store.KeyProposals, kind: KindProposal},
		technicianRequests: collection[TechnicianRequest]{key: store.KeyTechnicianRequests, kind: KindTechnicianRequest},
	}
}

func newID() string {
	return ulid.Make().String()
}

func (m *Market) stamp() time.Time {
	return m.now().UTC()
}

func created(kind Kind, id, owner string) {
	logger.Info("Marketplace record created",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("owner_id", owner),
	)
}

// CreateProject validates p and stores it as an open project of ownerID.
func (m *Market) CreateProject(ctx context.Context, ownerID string, p Project) (*Project, error) {
	p.ID, p.OwnerID, p.Status, p.CreatedAt = newID(), ownerID, StatusOpen, m.stamp()
	if err := validate(p); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	all, err := m.projects.read(ctx, m.store)
	if err != nil {
		return nil, err
	}
	m.projects.save(ctx, m.store, append(all, p))
	created(KindProject, p.ID, ownerID)
	return &p, nil
}

// Projects lists projects, newest first.
func (m *Market) Projects(ctx context.Context) []Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.projects.load(ctx, m.store)
	slices.Reverse(all)
	return all
}

// Project returns one project.
func (m *Market) Project(ctx context.Context, id string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return findByID(m.projects.load(ctx, m.store), id)
}

// CreateService validates s and stores it as an open service of ownerID.
func (m *Market) CreateService(ctx context.Context, ownerID string, s Service) (*Service, error) {
	s.ID, s.OwnerID, s.Status, s.CreatedAt = newID(), ownerID, StatusOpen, m.stamp()
	if err := validate(s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	all, err := m.services.read(ctx, m.store)
	if err != nil {
		return nil, err
	}
	m.services.save(ctx, m.store, append(all, s))
	created(KindService, s.ID, ownerID)
	return &s, nil
}

// Services lists services, newest first.
func (m *Market) Services(ctx context.Context) []Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.services.load(ctx, m.store)
	slices.Reverse(all)
	return all
}

// CreateProposal stores a pending proposal of vendorID on an existing project.
func (m *Market) CreateProposal(ctx context.Context, vendorID string, p Proposal) (*Proposal, error) {
	p.ID, p.VendorID, p.Status, p.CreatedAt = newID(), vendorID, StatusPending, m.stamp()
	if err := validate(p); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	projects, err := m.projects.read(ctx, m.store)
	if err != nil {
		return nil, err
	}
	if _, err := findByID(projects, p.ProjectID); err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ProjectID, err)
	}
	all, err := m.proposals.read(ctx, m.store)
	if err != nil {
		return nil, err
	}
	m.proposals.save(ctx, m.store, append(all, p))
	created(KindProposal, p.ID, vendorID)
	return &p, nil
}

// Proposals lists proposals, newest first; a non-empty projectID keeps only
// the proposals on that project.
func (m *Market) Proposals(ctx context.Context, projectID string) []Proposal {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.proposals.load(ctx, m.store)
	if projectID != "" {
		all = slices.DeleteFunc(all, func(p Proposal) bool { return p.ProjectID != projectID })
	}
	slices.Reverse(all)
	return all
}

// CreateTechnicianRequest stores a pending request of technicianID on an
// existing service.
func (m *Market) CreateTechnicianRequest(ctx context.Context, technicianID string, r TechnicianRequest) (*TechnicianRequest, error) {
	r.ID, r.TechnicianID, r.Status, r.CreatedAt = newID(), technicianID, StatusPending, m.stamp()
	if err := validate(r); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	services, err := m.services.read(ctx, m.store)
	if err != nil {
		return nil, err
	}
	if _, err := findByID(services, r.ServiceID); err != nil {
		return nil, fmt.Errorf("service %s: %w", r.ServiceID, err)
	}
	all, err := m.technicianRequests.read(ctx, m.store)
	if err != nil {
		return nil, err
	}
	m.technicianRequests.save(ctx, m.store, append(all, r))
	created(KindTechnicianRequest, r.ID, technicianID)
	return &r, nil
}

// TechnicianRequests lists requests, newest first; a non-empty serviceID
// keeps only the requests on that service.
func (m *Market) TechnicianRequests(ctx context.Context, serviceID string) []TechnicianRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.technicianRequests.load(ctx, m.store)
	if serviceID != "" {
		all = slices.DeleteFunc(all, func(r TechnicianRequest) bool { return r.ServiceID != serviceID })
	}
	slices.Reverse(all)
	return all
}

func findByID[T Record](recs []T, id string) (*T, error) {
	for i := range recs {
		if recs[i].RecordID() == id {
			return &recs[i], nil
		}
	}
	return nil, ErrNotFound
}
