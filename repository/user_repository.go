package repository

import (
	"database/sql"
	"errors"
	"go-account-api/logger"
	"go-account-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (email, phone number).
var ErrDuplicate = errors.New("duplicate unique field")

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id int) (*model.User, error)
	GetUserByEmailWithRole(email string) (*model.UserWithRole, error)
	GetUserByIDWithRole(id int) (*model.UserWithRole, error)
	GetAllUsers() ([]*model.User, error)
	GetUsersPaginated(page, limit int) ([]*model.User, error)
	GetCompleteUser(id int) (*model.CompleteUser, error)
	UpdateUser(user *model.User) error
	UpdatePassword(userID int, passwordHash string) error
	DeleteUser(id int) error
	GetAddress(userID int) (*model.Address, error)
	UpsertAddress(address *model.Address) error
	GetPhone(userID int) (*model.Phone, error)
	UpsertPhone(phone *model.Phone) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// translateError maps driver-level constraint violations to ErrDuplicate.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

// CreateUser inserts a new user with the default "user" role.
func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (name, email, password, role_id, gender_id)
		VALUES ($1, $2, $3, (SELECT id FROM roles WHERE name = 'user'), $4)
		RETURNING id, role_id, created_at`
	err := r.DB.QueryRow(query, user.Name, user.Email, user.Password, user.GenderID).
		Scan(&user.ID, &user.RoleID, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, name, email, password, role_id, gender_id, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.RoleID, &user.GenderID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmailWithRole fetches a user joined with the role name, the read
// used by login.
func (r *UserRepository) GetUserByEmailWithRole(email string) (*model.UserWithRole, error) {
	user := &model.UserWithRole{}
	query := `SELECT u.id, u.name, u.email, u.password, u.role_id, u.gender_id, u.created_at, r.name
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1`
	err := r.DB.QueryRow(query, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.RoleID, &user.GenderID, &user.CreatedAt, &user.RoleName)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get user by email query")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByIDWithRole fetches a user joined with the role name, the read
// used by the refresh fallback when the session cache misses.
func (r *UserRepository) GetUserByIDWithRole(id int) (*model.UserWithRole, error) {
	user := &model.UserWithRole{}
	query := `SELECT u.id, u.name, u.email, u.password, u.role_id, u.gender_id, u.created_at, r.name
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`
	err := r.DB.QueryRow(query, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.RoleID, &user.GenderID, &user.CreatedAt, &user.RoleName)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get user by id query")
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	logger.Log.Info("Executing query to get all users")

	query := `SELECT id, name, email, password, role_id, gender_id, created_at FROM users ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetUsersPaginated returns one page of users. Page numbering starts at 1.
func (r *UserRepository) GetUsersPaginated(page, limit int) ([]*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{"page": page, "limit": limit})
	log.Info("Executing query to get paginated users")

	query := `SELECT id, name, email, password, role_id, gender_id, created_at
		FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, (page-1)*limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute paginated users query")
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]*model.User, error) {
	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.RoleID, &u.GenderID, &u.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// GetCompleteUser returns the aggregate view: user joined with role and
// gender names plus the optional address and phone sub-resources.
func (r *UserRepository) GetCompleteUser(id int) (*model.CompleteUser, error) {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to get complete user")

	user := &model.CompleteUser{}
	query := `SELECT u.id, u.name, u.email, u.password, u.role_id, u.gender_id, u.created_at, r.name, g.name
		FROM users u
		JOIN roles r ON r.id = u.role_id
		JOIN genders g ON g.id = u.gender_id
		WHERE u.id = $1`
	err := r.DB.QueryRow(query, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.RoleID, &user.GenderID,
			&user.CreatedAt, &user.RoleName, &user.GenderName)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get complete user query")
		}
		return nil, err
	}

	address, err := r.GetAddress(id)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	user.Address = address

	phone, err := r.GetPhone(id)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	user.Phone = phone

	return user, nil
}

// UpdateUser updates the user's own mutable fields (name, gender).
func (r *UserRepository) UpdateUser(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user")

	query := `UPDATE users SET name = $1, gender_id = $2 WHERE id = $3
		RETURNING email, password, role_id, created_at`
	err := r.DB.QueryRow(query, user.Name, user.GenderID, user.ID).
		Scan(&user.Email, &user.Password, &user.RoleID, &user.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute update user query")
		}
		return err
	}
	return nil
}

func (r *UserRepository) UpdatePassword(userID int, passwordHash string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update user password")

	result, err := r.DB.Exec(`UPDATE users SET password = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteUser removes the user row. Addresses, phones and tokens cascade.
func (r *UserRepository) DeleteUser(id int) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to delete user")

	result, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete user query")
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) GetAddress(userID int) (*model.Address, error) {
	address := &model.Address{}
	query := `SELECT user_id, city_id, street, number, zip_code, neighborhood FROM addresses WHERE user_id = $1`
	err := r.DB.QueryRow(query, userID).
		Scan(&address.UserID, &address.CityID, &address.Street, &address.Number, &address.ZipCode, &address.Neighborhood)
	if err != nil {
		return nil, err
	}
	return address, nil
}

// UpsertAddress creates or replaces the user's single address.
func (r *UserRepository) UpsertAddress(address *model.Address) error {
	log := logger.Log.WithField("user_id", address.UserID)
	log.Info("Executing query to upsert address")

	query := `INSERT INTO addresses (user_id, city_id, street, number, zip_code, neighborhood)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			city_id = EXCLUDED.city_id, street = EXCLUDED.street, number = EXCLUDED.number,
			zip_code = EXCLUDED.zip_code, neighborhood = EXCLUDED.neighborhood`
	_, err := r.DB.Exec(query, address.UserID, address.CityID, address.Street,
		address.Number, address.ZipCode, address.Neighborhood)
	if err != nil {
		log.WithError(err).Error("Failed to execute upsert address query")
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) GetPhone(userID int) (*model.Phone, error) {
	phone := &model.Phone{}
	query := `SELECT user_id, ddd, number FROM phones WHERE user_id = $1`
	err := r.DB.QueryRow(query, userID).Scan(&phone.UserID, &phone.DDD, &phone.Number)
	if err != nil {
		return nil, err
	}
	return phone, nil
}

// UpsertPhone creates or replaces the user's single phone. A number already
// registered to another user violates the (ddd, number) unique constraint
// and surfaces as ErrDuplicate.
func (r *UserRepository) UpsertPhone(phone *model.Phone) error {
	log := logger.Log.WithField("user_id", phone.UserID)
	log.Info("Executing query to upsert phone")

	query := `INSERT INTO phones (user_id, ddd, number) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET ddd = EXCLUDED.ddd, number = EXCLUDED.number`
	_, err := r.DB.Exec(query, phone.UserID, phone.DDD, phone.Number)
	if err != nil {
		log.WithError(err).Error("Failed to execute upsert phone query")
		return translateError(err)
	}
	return nil
}
