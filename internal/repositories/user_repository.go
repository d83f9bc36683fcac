package repositories

import (
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByIDForUpdate(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error)

	// Groups
	EnsureGroup(db *gorm.DB, name string) (*models.Group, error)
	ReplaceRoleGroup(db *gorm.DB, userID uint, group *models.Group) error
	FindGroupNames(db *gorm.DB, userID uint) ([]string, error)
}

type UserFilter struct {
	Role     models.UserRole
	Search   string
	Page     int
	PageSize int
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.Preload("Groups").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate locks the user row for the rest of the transaction.
func (r *UserRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error) {
	query := db.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Scopes(paginate(filter.Page, filter.PageSize)).Order("id").Find(&users).Error
	return users, total, err
}

// Groups

func (r *UserRepositoryImpl) EnsureGroup(db *gorm.DB, name string) (*models.Group, error) {
	group := models.Group{Name: name}
	if err := db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ReplaceRoleGroup drops every role-group membership of the user and adds group.
// Memberships in groups not managed by role sync are left alone.
func (r *UserRepositoryImpl) ReplaceRoleGroup(db *gorm.DB, userID uint, group *models.Group) error {
	var roleGroupIDs []uint
	err := db.Model(&models.Group{}).
		Where("name IN ?", models.RoleGroupNames()).
		Pluck("id", &roleGroupIDs).Error
	if err != nil {
		return err
	}

	if len(roleGroupIDs) > 0 {
		err = db.Exec("DELETE FROM user_groups WHERE user_id = ? AND group_id IN ?", userID, roleGroupIDs).Error
		if err != nil {
			return err
		}
	}

	return db.Exec("INSERT INTO user_groups (user_id, group_id) VALUES (?, ?)", userID, group.ID).Error
}

func (r *UserRepositoryImpl) FindGroupNames(db *gorm.DB, userID uint) ([]string, error) {
	var names []string
	err := db.Model(&models.Group{}).
		Joins("JOIN user_groups ON user_groups.group_id = auth_groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("auth_groups.name").
		Pluck("auth_groups.name", &names).Error
	return names, err
}
