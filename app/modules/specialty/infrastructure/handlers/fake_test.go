package specialtyhandlers

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	specialtyservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/application"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/google/uuid"
)

// FakeService is a programmable fake for specialtyservice.Service. Methods
// without a Func return zero values.
type FakeService struct {
	trace []string

	ListSpecialtiesFunc       func(ctx context.Context) ([]specialtydb.Specialty, error)
	GetSpecialtyFunc          func(ctx context.Context, id uuid.UUID) (*specialtydb.Specialty, error)
	CreateSpecialtyFunc       func(ctx context.Context, actor clubdomain.Actor, in specialtyservice.NewSpecialty) (*specialtydb.Specialty, error)
	DeleteSpecialtyFunc       func(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error
	ListClassRequirementsFunc func(ctx context.Context, dbvClass string) ([]specialtydb.Requirement, error)
	AddClassRequirementFunc   func(ctx context.Context, actor clubdomain.Actor, dbvClass string, in specialtyservice.NewRequirement) (*specialtydb.Requirement, error)
	ClassProgressFunc         func(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, dbvClass string) (*specialtyservice.ClassProgress, error)
	MySpecialtiesFunc         func(ctx context.Context, actor clubdomain.Actor) ([]specialtyservice.SpecialtyProgress, error)
	AssignSpecialtyFunc       func(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error)
	SubmitAnswerFunc          func(ctx context.Context, actor clubdomain.Actor, requirementID uuid.UUID, answer specialtyservice.Answer) (*specialtydb.UserRequirement, error)
	SetRequirementStatusFunc  func(ctx context.Context, actor clubdomain.Actor, userID, requirementID uuid.UUID, verdict specialtydomain.RequirementStatus) (*specialtydb.UserRequirement, error)
	AwardSpecialtyFunc        func(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error)
	ClubDashboardFunc         func(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]specialtyservice.DashboardSpecialty, error)
	ExportDashboardFunc       func(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]byte, error)
	PendingWorkFunc           func(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) (*specialtyservice.PendingWork, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) ListSpecialties(ctx context.Context) ([]specialtydb.Specialty, error) {
	f.record("ListSpecialties")
	if f.ListSpecialtiesFunc != nil {
		return f.ListSpecialtiesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) GetSpecialty(ctx context.Context, id uuid.UUID) (*specialtydb.Specialty, error) {
	f.record("GetSpecialty")
	if f.GetSpecialtyFunc != nil {
		return f.GetSpecialtyFunc(ctx, id)
	}
	return &specialtydb.Specialty{ID: id}, nil
}

func (f *FakeService) CreateSpecialty(ctx context.Context, actor clubdomain.Actor, in specialtyservice.NewSpecialty) (*specialtydb.Specialty, error) {
	f.record("CreateSpecialty")
	if f.CreateSpecialtyFunc != nil {
		return f.CreateSpecialtyFunc(ctx, actor, in)
	}
	return &specialtydb.Specialty{ID: uuid.New(), Code: in.Code, Name: in.Name}, nil
}

func (f *FakeService) DeleteSpecialty(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error {
	f.record("DeleteSpecialty")
	if f.DeleteSpecialtyFunc != nil {
		return f.DeleteSpecialtyFunc(ctx, actor, id)
	}
	return nil
}

func (f *FakeService) ListClassRequirements(ctx context.Context, dbvClass string) ([]specialtydb.Requirement, error) {
	f.record("ListClassRequirements")
	if f.ListClassRequirementsFunc != nil {
		return f.ListClassRequirementsFunc(ctx, dbvClass)
	}
	return nil, nil
}

func (f *FakeService) AddClassRequirement(ctx context.Context, actor clubdomain.Actor, dbvClass string, in specialtyservice.NewRequirement) (*specialtydb.Requirement, error) {
	f.record("AddClassRequirement")
	if f.AddClassRequirementFunc != nil {
		return f.AddClassRequirementFunc(ctx, actor, dbvClass, in)
	}
	return &specialtydb.Requirement{ID: uuid.New(), DbvClass: &dbvClass, Description: in.Description, Type: in.Type}, nil
}

func (f *FakeService) ClassProgress(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, dbvClass string) (*specialtyservice.ClassProgress, error) {
	f.record("ClassProgress")
	if f.ClassProgressFunc != nil {
		return f.ClassProgressFunc(ctx, actor, userID, dbvClass)
	}
	return &specialtyservice.ClassProgress{UserID: userID, DbvClass: dbvClass}, nil
}

func (f *FakeService) MySpecialties(ctx context.Context, actor clubdomain.Actor) ([]specialtyservice.SpecialtyProgress, error) {
	f.record("MySpecialties")
	if f.MySpecialtiesFunc != nil {
		return f.MySpecialtiesFunc(ctx, actor)
	}
	return []specialtyservice.SpecialtyProgress{}, nil
}

func (f *FakeService) AssignSpecialty(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error) {
	f.record("AssignSpecialty")
	if f.AssignSpecialtyFunc != nil {
		return f.AssignSpecialtyFunc(ctx, actor, userID, specialtyID)
	}
	return &specialtydb.UserSpecialty{ID: uuid.New(), UserID: userID, SpecialtyID: specialtyID, Status: specialtydomain.SpecialtyInProgress}, nil
}

func (f *FakeService) SubmitAnswer(ctx context.Context, actor clubdomain.Actor, requirementID uuid.UUID, answer specialtyservice.Answer) (*specialtydb.UserRequirement, error) {
	f.record("SubmitAnswer")
	if f.SubmitAnswerFunc != nil {
		return f.SubmitAnswerFunc(ctx, actor, requirementID, answer)
	}
	return &specialtydb.UserRequirement{ID: uuid.New(), UserID: actor.UserID, RequirementID: requirementID, Status: specialtydomain.RequirementPending}, nil
}

func (f *FakeService) SetRequirementStatus(ctx context.Context, actor clubdomain.Actor, userID, requirementID uuid.UUID, verdict specialtydomain.RequirementStatus) (*specialtydb.UserRequirement, error) {
	f.record("SetRequirementStatus")
	if f.SetRequirementStatusFunc != nil {
		return f.SetRequirementStatusFunc(ctx, actor, userID, requirementID, verdict)
	}
	return &specialtydb.UserRequirement{ID: uuid.New(), UserID: userID, RequirementID: requirementID, Status: verdict}, nil
}

func (f *FakeService) AwardSpecialty(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error) {
	f.record("AwardSpecialty")
	if f.AwardSpecialtyFunc != nil {
		return f.AwardSpecialtyFunc(ctx, actor, userID, specialtyID)
	}
	return &specialtydb.UserSpecialty{ID: uuid.New(), UserID: userID, SpecialtyID: specialtyID, Status: specialtydomain.SpecialtyCompleted}, nil
}

func (f *FakeService) ClubDashboard(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]specialtyservice.DashboardSpecialty, error) {
	f.record("ClubDashboard")
	if f.ClubDashboardFunc != nil {
		return f.ClubDashboardFunc(ctx, actor, clubID)
	}
	return []specialtyservice.DashboardSpecialty{}, nil
}

func (f *FakeService) ExportDashboard(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]byte, error) {
	f.record("ExportDashboard")
	if f.ExportDashboardFunc != nil {
		return f.ExportDashboardFunc(ctx, actor, clubID)
	}
	return []byte("PK"), nil
}

func (f *FakeService) PendingWork(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) (*specialtyservice.PendingWork, error) {
	f.record("PendingWork")
	if f.PendingWorkFunc != nil {
		return f.PendingWorkFunc(ctx, actor, clubID)
	}
	return &specialtyservice.PendingWork{}, nil
}

var _ specialtyservice.Service = (*FakeService)(nil)
