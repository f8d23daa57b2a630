package specialtyservice

import (
	"cmp"
	"context"
	"slices"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type pair struct{ a, b uuid.UUID }

// FakeSpecialtyRepo is an in-memory specialtydb.Repository. Func fields
// override individual methods.
type FakeSpecialtyRepo struct {
	trace []string

	Specialties      map[uuid.UUID]*specialtydb.Specialty
	Requirements     map[uuid.UUID]*specialtydb.Requirement
	UserRequirements map[pair]*specialtydb.UserRequirement
	UserSpecialties  map[pair]*specialtydb.UserSpecialty
	Members          map[uuid.UUID]*clubdb.User

	SetVerdictFunc             func(ctx context.Context, db bun.IDB, ur *specialtydb.UserRequirement) error
	CountClassProgressFunc     func(ctx context.Context, db bun.IDB, userID uuid.UUID, dbvClass string) (int, int, error)
	CountSpecialtyProgressFunc func(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (int, int, error)
	UpsertUserSpecialtyFunc    func(ctx context.Context, db bun.IDB, us *specialtydb.UserSpecialty) error
	ClubProgressFunc           func(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]specialtydb.ProgressRow, error)
}

func NewFakeSpecialtyRepo() *FakeSpecialtyRepo {
	return &FakeSpecialtyRepo{
		Specialties:      map[uuid.UUID]*specialtydb.Specialty{},
		Requirements:     map[uuid.UUID]*specialtydb.Requirement{},
		UserRequirements: map[pair]*specialtydb.UserRequirement{},
		UserSpecialties:  map[pair]*specialtydb.UserSpecialty{},
		Members:          map[uuid.UUID]*clubdb.User{},
	}
}

func (f *FakeSpecialtyRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeSpecialtyRepo) Trace() []string { return f.trace }

// AddSpecialty seeds a specialty with n TEXT requirements.
func (f *FakeSpecialtyRepo) AddSpecialty(code, name string, n int) (*specialtydb.Specialty, []uuid.UUID) {
	spec := &specialtydb.Specialty{ID: uuid.New(), Code: code, Name: name}
	f.Specialties[spec.ID] = spec
	ids := make([]uuid.UUID, 0, n)
	for i := range n {
		r := &specialtydb.Requirement{ID: uuid.New(), SpecialtyID: &spec.ID, Position: i + 1, Description: name + " task", Type: specialtydomain.RequirementText}
		f.Requirements[r.ID] = r
		ids = append(ids, r.ID)
	}
	return spec, ids
}

// AddClass seeds a class curriculum with n requirements.
func (f *FakeSpecialtyRepo) AddClass(class string, n int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, n)
	for i := range n {
		c := class
		r := &specialtydb.Requirement{ID: uuid.New(), DbvClass: &c, Position: i + 1, Description: class + " task", Type: specialtydomain.RequirementText}
		f.Requirements[r.ID] = r
		ids = append(ids, r.ID)
	}
	return ids
}

func (f *FakeSpecialtyRepo) requirementsOf(match func(*specialtydb.Requirement) bool) []specialtydb.Requirement {
	var out []specialtydb.Requirement
	for _, r := range f.Requirements {
		if match(r) {
			out = append(out, *r)
		}
	}
	slices.SortFunc(out, func(a, b specialtydb.Requirement) int { return cmp.Compare(a.Position, b.Position) })
	return out
}

func (f *FakeSpecialtyRepo) count(userID uuid.UUID, reqs []specialtydb.Requirement) (int, int) {
	approved := 0
	for _, r := range reqs {
		if ur, ok := f.UserRequirements[pair{userID, r.ID}]; ok && ur.Status == specialtydomain.RequirementApproved {
			approved++
		}
	}
	return approved, len(reqs)
}

func (f *FakeSpecialtyRepo) ListSpecialties(ctx context.Context, db bun.IDB) ([]specialtydb.Specialty, error) {
	f.record("ListSpecialties")
	var out []specialtydb.Specialty
	for _, s := range f.Specialties {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b specialtydb.Specialty) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *FakeSpecialtyRepo) GetSpecialty(ctx context.Context, db bun.IDB, id uuid.UUID) (*specialtydb.Specialty, error) {
	f.record("GetSpecialty")
	s, ok := f.Specialties[id]
	if !ok {
		return nil, specialtydb.ErrNotFound
	}
	out := *s
	out.Requirements = f.requirementsOf(func(r *specialtydb.Requirement) bool { return r.SpecialtyID != nil && *r.SpecialtyID == id })
	out.RequirementCount = len(out.Requirements)
	return &out, nil
}

func (f *FakeSpecialtyRepo) CreateSpecialty(ctx context.Context, db bun.IDB, s *specialtydb.Specialty) error {
	f.record("CreateSpecialty")
	for _, existing := range f.Specialties {
		if existing.Code == s.Code {
			return specialtydb.ErrDuplicateCode
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.Specialties[s.ID] = s
	return nil
}

func (f *FakeSpecialtyRepo) DeleteSpecialty(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("DeleteSpecialty")
	if _, ok := f.Specialties[id]; !ok {
		return specialtydb.ErrNotFound
	}
	delete(f.Specialties, id)
	return nil
}

func (f *FakeSpecialtyRepo) CreateRequirements(ctx context.Context, db bun.IDB, reqs []specialtydb.Requirement) error {
	f.record("CreateRequirements")
	for i := range reqs {
		if reqs[i].ID == uuid.Nil {
			reqs[i].ID = uuid.New()
		}
		r := reqs[i]
		f.Requirements[r.ID] = &r
	}
	return nil
}

func (f *FakeSpecialtyRepo) GetRequirement(ctx context.Context, db bun.IDB, id uuid.UUID) (*specialtydb.Requirement, error) {
	f.record("GetRequirement")
	r, ok := f.Requirements[id]
	if !ok {
		return nil, specialtydb.ErrRequirementNotFound
	}
	out := *r
	return &out, nil
}

func (f *FakeSpecialtyRepo) ListClassRequirements(ctx context.Context, db bun.IDB, dbvClass string) ([]specialtydb.Requirement, error) {
	f.record("ListClassRequirements")
	return f.requirementsOf(func(r *specialtydb.Requirement) bool { return r.DbvClass != nil && *r.DbvClass == dbvClass }), nil
}

func (f *FakeSpecialtyRepo) NextClassPosition(ctx context.Context, db bun.IDB, dbvClass string) (int, error) {
	f.record("NextClassPosition")
	reqs := f.requirementsOf(func(r *specialtydb.Requirement) bool { return r.DbvClass != nil && *r.DbvClass == dbvClass })
	if len(reqs) == 0 {
		return 1, nil
	}
	return reqs[len(reqs)-1].Position + 1, nil
}

func (f *FakeSpecialtyRepo) CountClassProgress(ctx context.Context, db bun.IDB, userID uuid.UUID, dbvClass string) (int, int, error) {
	f.record("CountClassProgress")
	if f.CountClassProgressFunc != nil {
		return f.CountClassProgressFunc(ctx, db, userID, dbvClass)
	}
	a, t := f.count(userID, f.requirementsOf(func(r *specialtydb.Requirement) bool { return r.DbvClass != nil && *r.DbvClass == dbvClass }))
	return a, t, nil
}

func (f *FakeSpecialtyRepo) CountSpecialtyProgress(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (int, int, error) {
	f.record("CountSpecialtyProgress")
	if f.CountSpecialtyProgressFunc != nil {
		return f.CountSpecialtyProgressFunc(ctx, db, userID, specialtyID)
	}
	a, t := f.count(userID, f.requirementsOf(func(r *specialtydb.Requirement) bool { return r.SpecialtyID != nil && *r.SpecialtyID == specialtyID }))
	return a, t, nil
}

func (f *FakeSpecialtyRepo) ListUserRequirements(ctx context.Context, db bun.IDB, userID uuid.UUID, requirementIDs []uuid.UUID) ([]specialtydb.UserRequirement, error) {
	f.record("ListUserRequirements")
	var out []specialtydb.UserRequirement
	for _, id := range requirementIDs {
		if ur, ok := f.UserRequirements[pair{userID, id}]; ok {
			out = append(out, *ur)
		}
	}
	return out, nil
}

func (f *FakeSpecialtyRepo) SaveSubmission(ctx context.Context, db bun.IDB, ur *specialtydb.UserRequirement) error {
	f.record("SaveSubmission")
	ur.Status = specialtydomain.RequirementPending
	ur.ReviewedBy = nil
	if existing, ok := f.UserRequirements[pair{ur.UserID, ur.RequirementID}]; ok {
		ur.ID = existing.ID
	} else if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	stored := *ur
	f.UserRequirements[pair{ur.UserID, ur.RequirementID}] = &stored
	return nil
}

func (f *FakeSpecialtyRepo) SetVerdict(ctx context.Context, db bun.IDB, ur *specialtydb.UserRequirement) error {
	f.record("SetVerdict")
	if f.SetVerdictFunc != nil {
		return f.SetVerdictFunc(ctx, db, ur)
	}
	key := pair{ur.UserID, ur.RequirementID}
	if existing, ok := f.UserRequirements[key]; ok {
		ur.ID = existing.ID
		ur.AnswerText, ur.AnswerFileURL = existing.AnswerText, existing.AnswerFileURL
	} else if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	stored := *ur
	f.UserRequirements[key] = &stored
	return nil
}

func (f *FakeSpecialtyRepo) GetUserSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error) {
	f.record("GetUserSpecialty")
	us, ok := f.UserSpecialties[pair{userID, specialtyID}]
	if !ok {
		return nil, specialtydb.ErrUserSpecialtyNotFound
	}
	out := *us
	return &out, nil
}

func (f *FakeSpecialtyRepo) StartUserSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, bool, error) {
	f.record("StartUserSpecialty")
	key := pair{userID, specialtyID}
	if us, ok := f.UserSpecialties[key]; ok {
		out := *us
		return &out, false, nil
	}
	us := &specialtydb.UserSpecialty{ID: uuid.New(), UserID: userID, SpecialtyID: specialtyID, Status: specialtydomain.SpecialtyInProgress, StartedAt: time.Now()}
	f.UserSpecialties[key] = us
	out := *us
	return &out, true, nil
}

func (f *FakeSpecialtyRepo) UpsertUserSpecialty(ctx context.Context, db bun.IDB, us *specialtydb.UserSpecialty) error {
	f.record("UpsertUserSpecialty")
	if f.UpsertUserSpecialtyFunc != nil {
		return f.UpsertUserSpecialtyFunc(ctx, db, us)
	}
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	stored := *us
	f.UserSpecialties[pair{us.UserID, us.SpecialtyID}] = &stored
	return nil
}

func (f *FakeSpecialtyRepo) UserProgress(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]specialtydb.ProgressRow, error) {
	f.record("UserProgress")
	return nil, nil
}

func (f *FakeSpecialtyRepo) ClubProgress(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]specialtydb.ProgressRow, error) {
	f.record("ClubProgress")
	if f.ClubProgressFunc != nil {
		return f.ClubProgressFunc(ctx, db, clubID)
	}
	return nil, nil
}

func (f *FakeSpecialtyRepo) PendingRequirements(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]specialtydb.PendingRequirementRow, error) {
	f.record("PendingRequirements")
	var out []specialtydb.PendingRequirementRow
	for key, ur := range f.UserRequirements {
		m, ok := f.Members[key.a]
		if !ok || !m.BelongsTo(clubID) || ur.Status != specialtydomain.RequirementPending {
			continue
		}
		out = append(out, specialtydb.PendingRequirementRow{UserRequirementID: ur.ID, UserID: m.ID, UserName: m.Name, RequirementID: ur.RequirementID})
	}
	return out, nil
}

func (f *FakeSpecialtyRepo) WaitingSpecialties(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]specialtydb.WaitingSpecialtyRow, error) {
	f.record("WaitingSpecialties")
	var out []specialtydb.WaitingSpecialtyRow
	for key, us := range f.UserSpecialties {
		m, ok := f.Members[key.a]
		if !ok || !m.BelongsTo(clubID) || us.Status != specialtydomain.SpecialtyWaitingApproval {
			continue
		}
		out = append(out, specialtydb.WaitingSpecialtyRow{UserSpecialtyID: us.ID, UserID: m.ID, UserName: m.Name, SpecialtyID: us.SpecialtyID})
	}
	return out, nil
}

var _ specialtydb.Repository = (*FakeSpecialtyRepo)(nil)

// FakeClubRepo serves members from a map. Unlisted methods panic.
type FakeClubRepo struct {
	clubdb.Repository
	trace []string

	Users map[uuid.UUID]*clubdb.User

	AdvanceClassMilestoneFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID, from, to int) (bool, error)
}

func (f *FakeClubRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeClubRepo) Trace() []string { return f.trace }

func (f *FakeClubRepo) GetUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error) {
	f.record("GetUser")
	u, ok := f.Users[userID]
	if !ok {
		return nil, clubdb.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *FakeClubRepo) LockUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error) {
	f.record("LockUser")
	u, ok := f.Users[userID]
	if !ok {
		return nil, clubdb.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *FakeClubRepo) ListClubStaff(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]clubdb.User, error) {
	f.record("ListClubStaff")
	var out []clubdb.User
	for _, u := range f.Users {
		if u.BelongsTo(clubID) && u.Role.IsStaff() {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *FakeClubRepo) AdvanceClassMilestone(ctx context.Context, db bun.IDB, userID uuid.UUID, from, to int) (bool, error) {
	f.record("AdvanceClassMilestone")
	if f.AdvanceClassMilestoneFunc != nil {
		return f.AdvanceClassMilestoneFunc(ctx, db, userID, from, to)
	}
	u, ok := f.Users[userID]
	if !ok || u.LastClassMilestone != from || to <= from {
		return false, nil
	}
	u.LastClassMilestone = to
	return true, nil
}

// FakeLedger applies awards to the member map like the real ledger does.
type FakeLedger struct {
	Users     map[uuid.UUID]*clubdb.User
	Entries   []*pointsdb.PointsHistory
	Announced []*pointsdb.PointsHistory

	AwardFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID, amount int, reason string, source pointsdomain.Source) (*pointsdb.PointsHistory, error)
}

func (f *FakeLedger) Award(ctx context.Context, db bun.IDB, userID uuid.UUID, amount int, reason string, source pointsdomain.Source) (*pointsdb.PointsHistory, error) {
	if f.AwardFunc != nil {
		return f.AwardFunc(ctx, db, userID, amount, reason, source)
	}
	entry := &pointsdb.PointsHistory{ID: uuid.New(), UserID: userID, Amount: amount, Reason: reason, Source: source, CreatedAt: time.Now()}
	f.Entries = append(f.Entries, entry)
	if u, ok := f.Users[userID]; ok {
		u.Points += amount
	}
	return entry, nil
}

func (f *FakeLedger) Announce(ctx context.Context, entries ...*pointsdb.PointsHistory) {
	f.Announced = append(f.Announced, entries...)
}

// Total sums every recorded award for a member.
func (f *FakeLedger) Total(userID uuid.UUID) int {
	sum := 0
	for _, e := range f.Entries {
		if e.UserID == userID {
			sum += e.Amount
		}
	}
	return sum
}

type sent struct {
	UserID   uuid.UUID
	Title    string
	Body     string
	Severity notificationdomain.Severity
}

// FakeNotifier records sends.
type FakeNotifier struct {
	Sent []sent
}

func (f *FakeNotifier) Send(ctx context.Context, userID uuid.UUID, title, body string, severity notificationdomain.Severity) {
	f.Sent = append(f.Sent, sent{userID, title, body, severity})
}

// Titled returns the sends with the given title.
func (f *FakeNotifier) Titled(title string) []sent {
	var out []sent
	for _, s := range f.Sent {
		if s.Title == title {
			out = append(out, s)
		}
	}
	return out
}

type publishedEvent struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

type FakePublisher struct {
	Events []publishedEvent
	Err    error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Events = append(f.Events, publishedEvent{topic, payload, metadata})
	return nil
}

// world wires a service over the fakes with one club, an admin and a pathfinder.
type world struct {
	clubID     uuid.UUID
	admin      *clubdb.User
	pathfinder *clubdb.User

	repo      *FakeSpecialtyRepo
	clubRepo  *FakeClubRepo
	ledger    *FakeLedger
	notifier  *FakeNotifier
	publisher *FakePublisher
	service   *SpecialtyService
}

func (w *world) adminActor() clubdomain.Actor { return w.admin.Actor() }

func (w *world) pathfinderActor() clubdomain.Actor { return w.pathfinder.Actor() }

// savepoint stands in for a nested transaction over the in-memory fakes:
// member counters, ledger rows and specialty rows written by fn are restored
// when fn fails.
func (w *world) savepoint(ctx context.Context, db bun.IDB, fn func(ctx context.Context, db bun.IDB) error) error {
	members := make(map[uuid.UUID]clubdb.User, len(w.clubRepo.Users))
	for id, u := range w.clubRepo.Users {
		members[id] = *u
	}
	entries := len(w.ledger.Entries)
	specialties := make(map[pair]*specialtydb.UserSpecialty, len(w.repo.UserSpecialties))
	for k, us := range w.repo.UserSpecialties {
		cp := *us
		specialties[k] = &cp
	}

	if err := fn(ctx, db); err != nil {
		for id, u := range w.clubRepo.Users {
			if saved, ok := members[id]; ok {
				*u = saved
			}
		}
		w.ledger.Entries = w.ledger.Entries[:entries]
		w.repo.UserSpecialties = specialties
		return err
	}
	return nil
}
