package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/model"
	"pkv-backend/internal/pkg/mailer"
	"pkv-backend/internal/repository/contract"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/pkg/contractqa"
	"pkv-backend/pkg/events"

	"github.com/google/uuid"
)

// store is a tiny in-memory database shared by the fake repositories.
type store struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	verify     []*entity.EmailVerificationToken
	resets     []*entity.PasswordResetToken
	contracts  map[uuid.UUID]*entity.UserContract
	contacts   []*entity.ContactMessage
	companies  map[uuid.UUID]*entity.InsuranceCompany
	tariffs    map[uuid.UUID]*entity.Tariff
	links      map[uuid.UUID][]uuid.UUID
	addOns     map[uuid.UUID][]uuid.UUID
	embeddings []*entity.ContractEmbedding
	embedErr   error
	cleared    bool
	commits    int
	failCreate error
}

func newStore() *store {
	return &store{
		users:     map[uuid.UUID]*entity.User{},
		contracts: map[uuid.UUID]*entity.UserContract{},
		companies: map[uuid.UUID]*entity.InsuranceCompany{},
		tariffs:   map[uuid.UUID]*entity.Tariff{},
		links:     map[uuid.UUID][]uuid.UUID{},
		addOns:    map[uuid.UUID][]uuid.UUID{},
	}
}

type fakeFactory struct{ s *store }

func (f fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return &fakeUow{s: f.s} }

type fakeUow struct{ s *store }

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error              { u.s.commits++; return nil }
func (u *fakeUow) Rollback() error            { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return &fakeUserRepo{s: u.s} }

func (u *fakeUow) InsuranceRepository() contract.InsuranceRepository {
	return &fakeInsuranceRepo{s: u.s}
}

func (u *fakeUow) ContractRepository() contract.ContractRepository {
	return &fakeContractRepo{s: u.s}
}

func (u *fakeUow) ContractEmbeddingRepository() contract.ContractEmbeddingRepository {
	return &fakeEmbeddingRepo{s: u.s}
}
func (u *fakeUow) ContactMessageRepository() contract.ContactMessageRepository {
	return &fakeContactRepo{s: u.s}
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if !strings.EqualFold(u.Email, sp.Email) {
				return false
			}
		case specification.ByUsername:
			if !strings.EqualFold(u.Username, sp.Username) {
				return false
			}
		case specification.ByLogin:
			if !strings.EqualFold(u.Username, sp.Identifier) && !strings.EqualFold(u.Email, sp.Identifier) {
				return false
			}
		}
	}
	return true
}

type fakeUserRepo struct {
	contract.UserRepository
	s *store
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCreate != nil {
		return r.s.failCreate
	}
	cp := *u
	r.s.users[u.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.Id] = &cp
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if matchUser(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ActivateUser(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.users[id]
	u.Status = entity.UserStatusActive
	u.EmailVerified = true
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[id].PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) CreateEmailVerificationToken(_ context.Context, t *entity.EmailVerificationToken) error {
	r.s.verify = append(r.s.verify, t)
	return nil
}

func tokenMatches(userID uuid.UUID, token string, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.UserOwnedBy:
			if sp.UserID != userID {
				return false
			}
		case specification.ByToken:
			if sp.Token != token {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) FindEmailVerificationToken(_ context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	for _, t := range r.s.verify {
		if tokenMatches(t.UserId, t.Token, specs) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(_ context.Context, id uuid.UUID) error {
	for i, t := range r.s.verify {
		if t.Id == id {
			r.s.verify = append(r.s.verify[:i], r.s.verify[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(_ context.Context, t *entity.PasswordResetToken) error {
	r.s.resets = append(r.s.resets, t)
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(_ context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	for _, t := range r.s.resets {
		if t.Used {
			continue
		}
		if tokenMatches(t.UserId, t.Token, specs) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ReplaceAdditionalTariffs(_ context.Context, id uuid.UUID, tariffIds []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.addOns[id] = append([]uuid.UUID(nil), tariffIds...)
	return nil
}

func (r *fakeUserRepo) MarkTokenUsed(_ context.Context, id uuid.UUID) error {
	for _, t := range r.s.resets {
		if t.Id == id {
			t.Used = true
		}
	}
	return nil
}

type fakeContractRepo struct {
	s *store
}

func (r *fakeContractRepo) Create(_ context.Context, c *entity.UserContract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	cp.CreatedAt = time.Now()
	r.s.contracts[c.Id] = &cp
	return nil
}

func (r *fakeContractRepo) Update(_ context.Context, c *entity.UserContract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.contracts[c.Id] = &cp
	return nil
}

func (r *fakeContractRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.UserContract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contracts {
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				ok = ok && c.Id == sp.ID
			case specification.UserOwnedBy:
				ok = ok && c.UserId == sp.UserID
			}
		}
		if ok {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeContractRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.contracts, id)
	return nil
}

// current returns the contract while it still references fileURL.
func (r *fakeContractRepo) current(id uuid.UUID, fileURL string) *entity.UserContract {
	c := r.s.contracts[id]
	if c == nil || c.FileURL != fileURL {
		return nil
	}
	return c
}

func (r *fakeContractRepo) UpdateStatus(_ context.Context, id uuid.UUID, fileURL string, status entity.ContractStatus, processingError *string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.current(id, fileURL)
	if c == nil {
		return false, nil
	}
	c.Status = status
	c.ProcessingError = processingError
	return true, nil
}

func (r *fakeContractRepo) UpdateText(_ context.Context, id uuid.UUID, fileURL string, text string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.current(id, fileURL)
	if c == nil {
		return false, nil
	}
	c.TextContent = text
	return true, nil
}

func (r *fakeContractRepo) MarkProcessed(_ context.Context, id uuid.UUID, fileURL string, text string, pageCount int, emptyPages []int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.current(id, fileURL)
	if c == nil {
		return false, nil
	}
	now := time.Now()
	c.Status = entity.ContractStatusReady
	c.TextContent = text
	c.PageCount = pageCount
	c.EmptyPages = emptyPages
	c.ProcessedAt = &now
	return true, nil
}

type fakeEmbeddingRepo struct{ s *store }

func (r *fakeEmbeddingRepo) FindByCacheKey(_ context.Context, contractId uuid.UUID, cacheKey string) ([]*entity.ContractEmbedding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.embedErr != nil {
		return nil, r.s.embedErr
	}
	var out []*entity.ContractEmbedding
	for _, row := range r.s.embeddings {
		if row.ContractId == contractId && row.CacheKey == cacheKey {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) ReplaceForContract(_ context.Context, contractId uuid.UUID, rows []*entity.ContractEmbedding) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.embedErr != nil {
		return r.s.embedErr
	}
	kept := r.s.embeddings[:0]
	for _, row := range r.s.embeddings {
		if row.ContractId != contractId {
			kept = append(kept, row)
		}
	}
	r.s.embeddings = append(kept, rows...)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByContract(_ context.Context, contractId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.embeddings[:0]
	for _, row := range r.s.embeddings {
		if row.ContractId != contractId {
			kept = append(kept, row)
		}
	}
	r.s.embeddings = kept
	return nil
}

type fakeContactRepo struct{ s *store }

func (r *fakeContactRepo) Create(_ context.Context, m *entity.ContactMessage) error {
	cp := *m
	cp.CreatedAt = time.Now().Add(time.Duration(len(r.s.contacts)) * time.Second)
	r.s.contacts = append(r.s.contacts, &cp)
	return nil
}

func (r *fakeContactRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ContactMessage, error) {
	var owner uuid.UUID
	desc := false
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.UserOwnedBy:
			owner = sp.UserID
		case specification.OrderBy:
			desc = sp.Desc
		}
	}
	var res []*entity.ContactMessage
	for _, m := range r.s.contacts {
		if m.UserId == owner {
			res = append(res, m)
		}
	}
	if desc {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res, nil
}

type sentMail struct {
	kind  string
	to    []string
	uid   string
	token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerificationLink(toEmail, _ string, uid, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "verify", to: []string{toEmail}, uid: uid, token: token})
	return m.err
}

func (m *fakeMailer) SendPasswordResetLink(toEmail, _ string, uid, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "reset", to: []string{toEmail}, uid: uid, token: token})
	return m.err
}

func (m *fakeMailer) SendContactMessage(recipients []string, _ mailer.ContactMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "contact", to: recipients})
	return m.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]string, 0, len(p.events))
	for _, e := range p.events {
		res = append(res, e.EventType())
	}
	return res
}

type fakeJobs struct {
	payloads []interface{}
}

func (f *fakeJobs) SendMessage(_ context.Context, payload interface{}) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeBlobs struct {
	objects map[string][]byte
	deleted []string
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{objects: map[string][]byte{}} }

func (b *fakeBlobs) Save(_ context.Context, userID uuid.UUID, fileName string, data []byte) (string, error) {
	url := "mem://" + userID.String() + "/" + uuid.NewString() + "_" + fileName
	b.objects[url] = data
	return url, nil
}

func (b *fakeBlobs) Download(_ context.Context, url string) ([]byte, error) {
	data, ok := b.objects[url]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (b *fakeBlobs) Delete(_ context.Context, url string) error {
	delete(b.objects, url)
	b.deleted = append(b.deleted, url)
	return nil
}

type fakeCorpusCache struct {
	contractqa.CorpusCache
	invalidated []uuid.UUID
}

func (c *fakeCorpusCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.invalidated = append(c.invalidated, id)
}

type fakeNotificationRepo struct {
	contract.NotificationRepository
	types   map[string]*model.NotificationType
	created []model.Notification
	admins  []uuid.UUID
}

func (r *fakeNotificationRepo) GetNotificationTypeByCode(_ context.Context, code string) (*model.NotificationType, error) {
	return r.types[code], nil
}

func (r *fakeNotificationRepo) UpsertNotificationType(_ context.Context, t *model.NotificationType) error {
	if r.types == nil {
		r.types = map[string]*model.NotificationType{}
	}
	cp := *t
	r.types[t.Code] = &cp
	return nil
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *model.Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) FindUserIDsByRole(_ context.Context, role string) ([]uuid.UUID, error) {
	if role == "admin" {
		return r.admins, nil
	}
	return nil, nil
}

type fakeDelivery struct {
	sent      map[uuid.UUID][]model.Notification
	broadcast []model.Notification
}

func (d *fakeDelivery) Send(userID uuid.UUID, n model.Notification) {
	if d.sent == nil {
		d.sent = map[uuid.UUID][]model.Notification{}
	}
	d.sent[userID] = append(d.sent[userID], n)
}

func (d *fakeDelivery) Broadcast(n model.Notification) {
	d.broadcast = append(d.broadcast, n)
}

type fakeInsuranceRepo struct {
	contract.InsuranceRepository
	s *store
}

func matchTariff(t *entity.Tariff, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if t.Id != sp.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range sp.IDs {
				found = found || id == t.Id
			}
			if !found {
				return false
			}
		case specification.ByCompany:
			if t.CompanyId != sp.CompanyID {
				return false
			}
		case specification.ByName:
			if t.Name != sp.Name {
				return false
			}
		case specification.ByTariffType:
			if string(t.Type) != sp.Type {
				return false
			}
		}
	}
	return true
}

func (r *fakeInsuranceRepo) CreateCompany(_ context.Context, c *entity.InsuranceCompany) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.companies[c.Id] = &cp
	return nil
}

func (r *fakeInsuranceRepo) FindCompany(_ context.Context, specs ...specification.Specification) (*entity.InsuranceCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				ok = ok && c.Id == sp.ID
			case specification.ByName:
				ok = ok && c.Name == sp.Name
			}
		}
		if ok {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInsuranceRepo) CreateTariff(_ context.Context, t *entity.Tariff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.tariffs[t.Id] = &cp
	return nil
}

func (r *fakeInsuranceRepo) FindTariff(ctx context.Context, specs ...specification.Specification) (*entity.Tariff, error) {
	all, _ := r.FindTariffs(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeInsuranceRepo) FindTariffs(_ context.Context, specs ...specification.Specification) ([]*entity.Tariff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Tariff
	for _, t := range r.s.tariffs {
		if matchTariff(t, specs) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInsuranceRepo) LinkAdditionalTariffs(_ context.Context, mainId uuid.UUID, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.links[mainId] = append([]uuid.UUID(nil), ids...)
	return nil
}

func (r *fakeInsuranceRepo) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.companies = map[uuid.UUID]*entity.InsuranceCompany{}
	r.s.tariffs = map[uuid.UUID]*entity.Tariff{}
	r.s.links = map[uuid.UUID][]uuid.UUID{}
	r.s.cleared = true
	return nil
}
