// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/forgeworks/makerspace-backend/internal/audit"
	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/permission"
	"github.com/forgeworks/makerspace-backend/internal/role"
)

var (
	ErrCampusIDExists    = errors.New("campus ID already registered")
	ErrStudentIDExists   = errors.New("student ID already registered")
	ErrRoleChangeImmune  = errors.New("target user is role-change immune")
	ErrRestrictedRole    = errors.New("role carries restricted permissions")
	ErrLockoutNotAllowed = errors.New("role carries lockout")
	ErrHasUsages         = errors.New("user has recorded machine usages")
)

// ActiveSemesterSource reports the active semester, nil when the
// makerspace is between semesters.
type ActiveSemesterSource interface {
	ActiveSemesterID(ctx context.Context) (*string, error)
}

type Service struct {
	db        *sqlx.DB
	repo      Repository
	roles     role.Repository
	semesters ActiveSemesterSource
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	roles role.Repository,
	semesters ActiveSemesterSource,
) *Service {
	return &Service{db: db, repo: repo, roles: roles, semesters: semesters}
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*User, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:             uuid.New().String(),
		CampusID:       req.CampusID,
		StudentID:      &req.StudentID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Major:          req.Major,
		GenderIdentity: req.GenderIdentity,
		Pronouns:       req.Pronouns,
		PasswordHash:   &passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, s.classifyDuplicate(ctx, req)
		}
		return nil, err
	}

	return user, nil
}

// classifyDuplicate turns the unique-violation into a field-specific
// error so signup can tell the caller which ID collided.
func (s *Service) classifyDuplicate(
	ctx context.Context,
	req SignupRequest,
) error {
	if _, err := s.repo.GetByCampusID(ctx, req.CampusID); err == nil {
		return ErrCampusIDExists
	}
	return ErrStudentIDExists
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCampusID(
	ctx context.Context,
	campusID string,
) (*User, error) {
	return s.repo.GetByCampusID(ctx, campusID)
}

func (s *Service) GetByStudentID(
	ctx context.Context,
	studentID string,
) (*User, error) {
	return s.repo.GetByStudentID(ctx, studentID)
}

func (s *Service) UpdatePasswordHash(
	ctx context.Context,
	userID, hash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// PermissionsFor resolves the user's effective permission set from
// their assigned roles.
func (s *Service) PermissionsFor(
	ctx context.Context,
	userID string,
) (permission.Set, error) {
	roles, err := s.roles.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grants := make([]permission.RoleGrant, 0, len(roles))
	for i := range roles {
		grants = append(grants, roles[i].Grant())
	}

	return permission.Resolve(grants), nil
}

// Detail assembles the full profile: roles, resolved permissions,
// display role, and the active-semester balance.
func (s *Service) Detail(
	ctx context.Context,
	user *User,
) (*DetailResponse, error) {
	roles, err := s.roles.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	grants := make([]permission.RoleGrant, 0, len(roles))
	for i := range roles {
		grants = append(grants, roles[i].Grant())
	}
	perms := permission.Resolve(grants)

	balance := decimal.Zero
	semesterID, err := s.semesters.ActiveSemesterID(ctx)
	if err != nil {
		return nil, err
	}
	if semesterID != nil {
		balance, err = s.repo.SemesterBalance(ctx, user.ID, *semesterID)
		if err != nil {
			return nil, err
		}
	}

	return &DetailResponse{
		UserResponse: ToUserResponse(user),
		Roles:        role.ToRoleResponseList(roles),
		DisplayRole:  user.DisplayRole(),
		Permissions:  perms.Tags(),
		Balance:      balance,
	}, nil
}

func (s *Service) DetailByID(
	ctx context.Context,
	id string,
) (*DetailResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, user)
}

func (s *Service) DetailByCampusID(
	ctx context.Context,
	campusID string,
) (*DetailResponse, error) {
	user, err := s.repo.GetByCampusID(ctx, campusID)
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, user)
}

func (s *Service) DetailByStudentID(
	ctx context.Context,
	studentID string,
) (*DetailResponse, error) {
	user, err := s.repo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, user)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Major != nil {
		user.Major = req.Major
	}
	if req.GenderIdentity != nil {
		user.GenderIdentity = req.GenderIdentity
	}
	if req.Pronouns != nil {
		user.Pronouns = req.Pronouns
	}
	if req.IsGraduating != nil {
		user.IsGraduating = *req.IsGraduating
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateCoreInfo(
	ctx context.Context,
	actorID, targetID string,
	req UpdateCoreInfoRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	changes := audit.Content{}
	if req.CampusID != nil && *req.CampusID != user.CampusID {
		changes["campus_id"] = *req.CampusID
		user.CampusID = *req.CampusID
	}
	if req.StudentID != nil {
		changes["student_id"] = *req.StudentID
		user.StudentID = req.StudentID
	}
	if req.FirstName != nil && *req.FirstName != user.FirstName {
		changes["first_name"] = *req.FirstName
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != user.LastName {
		changes["last_name"] = *req.LastName
		user.LastName = *req.LastName
	}
	if req.IsStaff != nil && *req.IsStaff != user.IsStaff {
		changes["is_staff"] = *req.IsStaff
		user.IsStaff = *req.IsStaff
	}

	if len(changes) == 0 {
		return user, nil
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Update(ctx, user); err != nil {
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeUserCoreInfoChanged,
			audit.Content{
				"actor":   actorID,
				"user":    targetID,
				"changes": changes,
			},
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetUserRoles replaces the target's role assignments. Role-change
// immune targets may only be modified by a superuser or by themselves,
// roles carrying LOCKOUT need canControlLockout, and roles carrying
// any other restricted tag need a superuser actor.
func (s *Service) SetUserRoles(
	ctx context.Context,
	actorID string,
	actorPerms permission.Set,
	targetID string,
	roleIDs []string,
) error {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	targetPerms, err := s.PermissionsFor(ctx, targetID)
	if err != nil {
		return err
	}

	if targetPerms.Has(permission.RoleChangeImmune) &&
		!actorPerms.IsSuperuser() &&
		actorID != targetID {
		return ErrRoleChangeImmune
	}

	currentIDs, err := s.repo.RoleIDs(ctx, targetID)
	if err != nil {
		return err
	}

	changed, err := s.changedRoles(ctx, currentIDs, roleIDs)
	if err != nil {
		return err
	}

	for i := range changed {
		r := &changed[i]
		carriesLockout := false
		for _, tag := range r.AllTags() {
			if tag == permission.Lockout {
				carriesLockout = true
				continue
			}
			if permission.IsRestricted(tag) && !actorPerms.IsSuperuser() {
				return fmt.Errorf("%w: %s", ErrRestrictedRole, r.Name)
			}
		}
		if carriesLockout &&
			!actorPerms.Has(permission.CanControlLockout) &&
			!actorPerms.IsSuperuser() {
			return fmt.Errorf("%w: %s", ErrLockoutNotAllowed, r.Name)
		}
	}

	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).SetRoles(ctx, targetID, roleIDs); err != nil {
			return err
		}

		_, err := audit.NewRepository(tx).Create(
			ctx,
			audit.TypeUserRolesChanged,
			audit.Content{
				"actor":     actorID,
				"user":      target.ID,
				"campus_id": target.CampusID,
				"old_roles": currentIDs,
				"new_roles": roleIDs,
			},
		)
		return err
	})
}

// changedRoles loads every role present in exactly one of the two
// assignment sets. Unknown role IDs surface as ErrNotFound.
func (s *Service) changedRoles(
	ctx context.Context,
	currentIDs, newIDs []string,
) ([]role.Role, error) {
	current := make(map[string]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = struct{}{}
	}
	next := make(map[string]struct{}, len(newIDs))
	for _, id := range newIDs {
		next[id] = struct{}{}
	}

	var changedIDs []string
	for id := range next {
		if _, ok := current[id]; !ok {
			changedIDs = append(changedIDs, id)
		}
	}
	for id := range current {
		if _, ok := next[id]; !ok {
			changedIDs = append(changedIDs, id)
		}
	}

	changed := make([]role.Role, 0, len(changedIDs))
	for _, id := range changedIDs {
		r, err := s.roles.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		changed = append(changed, *r)
	}

	return changed, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	hasUsages, err := s.repo.HasUsages(ctx, id)
	if err != nil {
		return err
	}

	if hasUsages {
		return ErrHasUsages
	}

	return s.repo.Delete(ctx, id)
}
