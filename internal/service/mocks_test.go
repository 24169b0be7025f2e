package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// mockClaimStore implements domain.ClaimStore for testing.
type mockClaimStore struct {
	claims map[uuid.UUID]*domain.Claim
}

func newMockClaimStore() *mockClaimStore {
	return &mockClaimStore{claims: make(map[uuid.UUID]*domain.Claim)}
}

func (m *mockClaimStore) Create(ctx context.Context, c *domain.Claim) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	m.claims[c.ID] = c
	return nil
}

func (m *mockClaimStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	c, ok := m.claims[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

// mockEvidenceStore implements domain.EvidenceStore for testing.
type mockEvidenceStore struct {
	items map[uuid.UUID]*domain.Evidence
}

func newMockEvidenceStore() *mockEvidenceStore {
	return &mockEvidenceStore{items: make(map[uuid.UUID]*domain.Evidence)}
}

func (m *mockEvidenceStore) Create(ctx context.Context, e *domain.Evidence) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *mockEvidenceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evidence, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEvidenceStore) Update(ctx context.Context, e *domain.Evidence) error {
	if _, ok := m.items[e.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *mockEvidenceStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockEvidenceStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Evidence, error) {
	var out []domain.Evidence
	for _, e := range m.items {
		if e.ClaimID() == claimID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEvidenceStore) CountsBySource(ctx context.Context, sourceID uuid.UUID) (domain.SourceEvidenceCounts, error) {
	var c domain.SourceEvidenceCounts
	for _, e := range m.items {
		if e.SourceID != sourceID {
			continue
		}
		c.Total++
		if e.Verified {
			c.Verified++
		}
		if e.PeerReview == domain.PeerReviewDisputed || e.PeerReview == domain.PeerReviewRejected {
			c.Disputed++
		}
	}
	return c, nil
}

// mockSourceStore implements domain.SourceStore for testing.
type mockSourceStore struct {
	sources     map[uuid.UUID]*domain.Source
	credibility map[uuid.UUID]*domain.SourceCredibility
}

func newMockSourceStore() *mockSourceStore {
	return &mockSourceStore{
		sources:     make(map[uuid.UUID]*domain.Source),
		credibility: make(map[uuid.UUID]*domain.SourceCredibility),
	}
}

func (m *mockSourceStore) Create(ctx context.Context, s *domain.Source) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.sources[s.ID] = s
	return nil
}

func (m *mockSourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	s, ok := m.sources[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (m *mockSourceStore) GetCredibility(ctx context.Context, sourceID uuid.UUID) (*domain.SourceCredibility, error) {
	sc, ok := m.credibility[sourceID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sc, nil
}

func (m *mockSourceStore) UpsertCredibility(ctx context.Context, sc *domain.SourceCredibility) error {
	m.credibility[sc.SourceID] = sc
	return nil
}

// mockDisputeStore implements domain.DisputeStore for testing.
type mockDisputeStore struct {
	disputes map[uuid.UUID]*domain.Dispute
}

func newMockDisputeStore() *mockDisputeStore {
	return &mockDisputeStore{disputes: make(map[uuid.UUID]*domain.Dispute)}
}

func (m *mockDisputeStore) Create(ctx context.Context, d *domain.Dispute) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	m.disputes[d.ID] = d
	return nil
}

func (m *mockDisputeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	d, ok := m.disputes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDisputeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolvedAt *time.Time) error {
	d, ok := m.disputes[id]
	if !ok {
		return store.ErrNotFound
	}
	d.Status = status
	d.ResolvedAt = resolvedAt
	return nil
}

func (m *mockDisputeStore) CountOpenByClaim(ctx context.Context, claimID uuid.UUID) (int, error) {
	count := 0
	for _, d := range m.disputes {
		if d.ClaimID == claimID && d.Status == domain.DisputeOpen {
			count++
		}
	}
	return count, nil
}

func (m *mockDisputeStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Dispute, error) {
	var out []domain.Dispute
	for _, d := range m.disputes {
		if d.ClaimID == claimID {
			out = append(out, *d)
		}
	}
	return out, nil
}

// mockScoreStore implements domain.ScoreStore with the same optimistic
// revision semantics as the Postgres store. conflicts forces that many
// ErrVersionConflict responses before writes succeed.
type mockScoreStore struct {
	scores    map[uuid.UUID]*domain.VeracityScore
	history   []domain.ScoreHistory
	conflicts int
}

func newMockScoreStore() *mockScoreStore {
	return &mockScoreStore{scores: make(map[uuid.UUID]*domain.VeracityScore)}
}

func (m *mockScoreStore) GetByClaim(ctx context.Context, claimID uuid.UUID) (*domain.VeracityScore, error) {
	vs, ok := m.scores[claimID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *vs
	return &cp, nil
}

func (m *mockScoreStore) Upsert(ctx context.Context, vs *domain.VeracityScore, expectedRevision int) error {
	if m.conflicts > 0 {
		m.conflicts--
		return store.ErrVersionConflict
	}
	current := 0
	if prior, ok := m.scores[vs.ClaimID]; ok {
		current = prior.Revision
	}
	if current != expectedRevision {
		return store.ErrVersionConflict
	}
	vs.Revision = current + 1
	vs.CalculatedAt = time.Now()
	cp := *vs
	m.scores[vs.ClaimID] = &cp
	return nil
}

func (m *mockScoreStore) AppendHistory(ctx context.Context, h *domain.ScoreHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	m.history = append(m.history, *h)
	return nil
}

func (m *mockScoreStore) ListHistory(ctx context.Context, claimID uuid.UUID, limit int) ([]domain.ScoreHistory, error) {
	var out []domain.ScoreHistory
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		if m.history[i].ClaimID == claimID {
			out = append(out, m.history[i])
		}
	}
	return out, nil
}

func (m *mockScoreStore) historyFor(claimID uuid.UUID) []domain.ScoreHistory {
	var out []domain.ScoreHistory
	for _, h := range m.history {
		if h.ClaimID == claimID {
			out = append(out, h)
		}
	}
	return out
}

// mockReputationStore implements domain.ReputationStore for testing.
type mockReputationStore struct {
	records map[uuid.UUID]*domain.ContributorReputation
}

func newMockReputationStore() *mockReputationStore {
	return &mockReputationStore{records: make(map[uuid.UUID]*domain.ContributorReputation)}
}

func (m *mockReputationStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.ContributorReputation, error) {
	r, ok := m.records[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockReputationStore) Upsert(ctx context.Context, r *domain.ContributorReputation) error {
	r.UpdatedAt = time.Now()
	m.records[r.UserID] = r
	return nil
}

// mockVoteStore implements domain.VoteStore for testing.
type mockVoteStore struct {
	votes map[uuid.UUID]map[uuid.UUID]*domain.ConsensusVote
}

func newMockVoteStore() *mockVoteStore {
	return &mockVoteStore{votes: make(map[uuid.UUID]map[uuid.UUID]*domain.ConsensusVote)}
}

func (m *mockVoteStore) Upsert(ctx context.Context, v *domain.ConsensusVote) error {
	v.CastAt = time.Now()
	byVoter, ok := m.votes[v.ClaimID]
	if !ok {
		byVoter = make(map[uuid.UUID]*domain.ConsensusVote)
		m.votes[v.ClaimID] = byVoter
	}
	cp := *v
	byVoter[v.VoterID] = &cp
	return nil
}

func (m *mockVoteStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.ConsensusVote, error) {
	var out []domain.ConsensusVote
	for _, v := range m.votes[claimID] {
		out = append(out, *v)
	}
	return out, nil
}

// mockMethodologyStore implements domain.MethodologyStore for testing.
type mockMethodologyStore struct {
	steps map[uuid.UUID]map[string]bool
}

func newMockMethodologyStore() *mockMethodologyStore {
	return &mockMethodologyStore{steps: make(map[uuid.UUID]map[string]bool)}
}

func (m *mockMethodologyStore) GetProgress(ctx context.Context, claimID uuid.UUID) (*domain.MethodologyProgress, error) {
	steps, ok := m.steps[claimID]
	if !ok || len(steps) == 0 {
		return nil, store.ErrNotFound
	}
	p := &domain.MethodologyProgress{ClaimID: claimID, RequiredSteps: len(steps)}
	for _, done := range steps {
		if done {
			p.CompletedSteps++
		}
	}
	return p, nil
}

func (m *mockMethodologyStore) DefineStep(ctx context.Context, claimID uuid.UUID, name string) error {
	steps, ok := m.steps[claimID]
	if !ok {
		steps = make(map[string]bool)
		m.steps[claimID] = steps
	}
	if _, exists := steps[name]; !exists {
		steps[name] = false
	}
	return nil
}

func (m *mockMethodologyStore) MarkStepComplete(ctx context.Context, claimID uuid.UUID, name string) error {
	steps, ok := m.steps[claimID]
	if !ok {
		return store.ErrNotFound
	}
	if _, exists := steps[name]; !exists {
		return store.ErrNotFound
	}
	steps[name] = true
	return nil
}

// mockPromotionStore implements domain.PromotionStore and mirrors the
// transactional Execute semantics of the Postgres store: failExecute
// simulates a mid-transaction failure where nothing is committed.
type mockPromotionStore struct {
	eligibility map[uuid.UUID]*domain.PromotionEligibility
	records     []domain.PromotionRecord
	claims      *mockClaimStore
	scores      *mockScoreStore
	failExecute error
	conflicts   int
}

func newMockPromotionStore(claims *mockClaimStore, scores *mockScoreStore) *mockPromotionStore {
	return &mockPromotionStore{
		eligibility: make(map[uuid.UUID]*domain.PromotionEligibility),
		claims:      claims,
		scores:      scores,
	}
}

func (m *mockPromotionStore) GetEligibility(ctx context.Context, claimID uuid.UUID) (*domain.PromotionEligibility, error) {
	e, ok := m.eligibility[claimID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockPromotionStore) UpsertEligibility(ctx context.Context, e *domain.PromotionEligibility, expectedRevision int) error {
	if m.conflicts > 0 {
		m.conflicts--
		return store.ErrVersionConflict
	}
	current := 0
	if prior, ok := m.eligibility[e.ClaimID]; ok {
		current = prior.Revision
	}
	if current != expectedRevision {
		return store.ErrVersionConflict
	}
	e.Revision = current + 1
	e.CalculatedAt = time.Now()
	cp := *e
	m.eligibility[e.ClaimID] = &cp
	return nil
}

func (m *mockPromotionStore) Execute(ctx context.Context, claimID uuid.UUID, rec *domain.PromotionRecord) error {
	if m.failExecute != nil {
		return m.failExecute
	}
	claim, ok := m.claims.claims[claimID]
	if !ok {
		return store.ErrNotFound
	}
	if claim.Immutable {
		return store.ErrAlreadyPromoted
	}

	now := time.Now()
	claim.Immutable = true
	claim.PromotedAt = &now

	frozen := &domain.VeracityScore{
		ClaimID: claimID,
		Score:   1.0,
		Method:  "promoted",
	}
	if prior, exists := m.scores.scores[claimID]; exists {
		frozen.Revision = prior.Revision + 1
	} else {
		frozen.Revision = 1
	}
	frozen.CalculatedAt = now
	m.scores.scores[claimID] = frozen

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.PromotedAt = now
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockPromotionStore) ListRecords(ctx context.Context, claimID uuid.UUID) ([]domain.PromotionRecord, error) {
	var out []domain.PromotionRecord
	for _, r := range m.records {
		if r.ClaimID == claimID {
			out = append(out, r)
		}
	}
	return out, nil
}

// capturingPublisher records emitted events.
type capturingPublisher struct {
	scoreChanges []domain.ScoreHistory
	promotions   []domain.PromotionRecord
}

func (p *capturingPublisher) ScoreChanged(ctx context.Context, h *domain.ScoreHistory) error {
	p.scoreChanges = append(p.scoreChanges, *h)
	return nil
}

func (p *capturingPublisher) ClaimPromoted(ctx context.Context, rec *domain.PromotionRecord) error {
	p.promotions = append(p.promotions, *rec)
	return nil
}

// engine bundles the fully wired service graph over mock stores.
type engine struct {
	claims      *mockClaimStore
	evidence    *mockEvidenceStore
	sources     *mockSourceStore
	disputes    *mockDisputeStore
	scores      *mockScoreStore
	reputations *mockReputationStore
	votes       *mockVoteStore
	methodology *mockMethodologyStore
	promotions  *mockPromotionStore
	events      *capturingPublisher

	credibilitySvc *CredibilityService
	scorerSvc      *ScorerService
	eligibilitySvc *EligibilityService
	promotionSvc   *PromotionService
	claimSvc       *ClaimService
	evidenceSvc    *EvidenceService
	disputeSvc     *DisputeService
	reputationSvc  *ReputationService
	voteSvc        *VoteService
	methodologySvc *MethodologyService
}

func newEngine() *engine {
	e := &engine{
		claims:      newMockClaimStore(),
		evidence:    newMockEvidenceStore(),
		sources:     newMockSourceStore(),
		disputes:    newMockDisputeStore(),
		scores:      newMockScoreStore(),
		reputations: newMockReputationStore(),
		votes:       newMockVoteStore(),
		methodology: newMockMethodologyStore(),
		events:      &capturingPublisher{},
	}
	e.promotions = newMockPromotionStore(e.claims, e.scores)

	logger := testLogger()
	e.credibilitySvc = NewCredibilityService(e.evidence, e.sources, logger)
	e.scorerSvc = NewScorerService(e.claims, e.evidence, e.disputes, e.sources, e.scores, e.events, logger)
	e.eligibilitySvc, _ = NewEligibilityService(e.votes, e.evidence, e.sources,
		e.disputes, e.methodology, e.promotions, domain.DefaultEligibilityWeights(), logger)
	e.promotionSvc = NewPromotionService(e.claims, e.promotions, e.eligibilitySvc, e.events, logger)
	e.claimSvc = NewClaimService(e.claims, e.scores, e.scorerSvc, logger)
	e.evidenceSvc = NewEvidenceService(e.evidence, e.claims, e.sources, e.credibilitySvc, e.scorerSvc, e.promotionSvc, logger)
	e.disputeSvc = NewDisputeService(e.disputes, e.claims, e.scorerSvc, e.promotionSvc, logger)
	e.reputationSvc = NewReputationService(e.reputations, logger)
	e.voteSvc = NewVoteService(e.votes, e.claims, e.reputationSvc, e.promotionSvc, logger)
	e.methodologySvc = NewMethodologyService(e.methodology, e.claims, e.promotionSvc, logger)

	return e
}

func (e *engine) addClaim(immutable bool) *domain.Claim {
	c := &domain.Claim{
		ID:        uuid.New(),
		Kind:      domain.ClaimKindNode,
		Statement: "the sample is contaminated",
		Immutable: immutable,
	}
	e.claims.claims[c.ID] = c
	return c
}

func (e *engine) addSource(credScore float64) *domain.Source {
	s := &domain.Source{ID: uuid.New(), Name: "journal"}
	e.sources.sources[s.ID] = s
	e.sources.credibility[s.ID] = &domain.SourceCredibility{
		SourceID: s.ID,
		Score:    credScore,
	}
	return s
}

func (e *engine) addVerifiedEvidence(claimID, sourceID uuid.UUID, typ domain.EvidenceType, baseWeight float64) *domain.Evidence {
	ev := &domain.Evidence{
		ID:                uuid.New(),
		TargetNodeID:      &claimID,
		SourceID:          sourceID,
		SubmittedBy:       uuid.New(),
		Type:              typ,
		BaseWeight:        baseWeight,
		Confidence:        1.0,
		TemporalRelevance: 1.0,
		Verified:          true,
		PeerReview:        domain.PeerReviewPending,
	}
	e.evidence.items[ev.ID] = ev
	return ev
}
