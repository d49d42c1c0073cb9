package repository

import (
	"database/sql"
	"go-account-api/logger"
	"go-account-api/model"

	"github.com/sirupsen/logrus"
)

// IGeoRepository defines the contract for gender, state and city lookups.
type IGeoRepository interface {
	CreateGender(gender *model.Gender) error
	GetAllGenders() ([]*model.Gender, error)
	GetGendersPaginated(page, limit int) ([]*model.Gender, error)
	GetAllStates() ([]*model.State, error)
	CreateCity(city *model.City) error
	GetCitiesByState(stateID int) ([]*model.City, error)
}

type GeoRepository struct {
	DB *sql.DB
}

func NewGeoRepository(db *sql.DB) *GeoRepository {
	return &GeoRepository{DB: db}
}

// CreateGender adds a new gender option.
func (r *GeoRepository) CreateGender(gender *model.Gender) error {
	log := logger.Log.WithField("name", gender.Name)
	log.Info("Executing query to create a new gender")

	query := `INSERT INTO genders (name) VALUES ($1) RETURNING id`
	err := r.DB.QueryRow(query, gender.Name).Scan(&gender.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create gender query")
		return translateError(err)
	}
	return nil
}

func (r *GeoRepository) GetAllGenders() ([]*model.Gender, error) {
	rows, err := r.DB.Query(`SELECT id, name FROM genders ORDER BY id`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all genders")
		return nil, err
	}
	defer rows.Close()

	var genders []*model.Gender
	for rows.Next() {
		var g model.Gender
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genders = append(genders, &g)
	}
	return genders, rows.Err()
}

func (r *GeoRepository) GetGendersPaginated(page, limit int) ([]*model.Gender, error) {
	log := logger.Log.WithFields(logrus.Fields{"page": page, "limit": limit})
	log.Info("Executing query to get paginated genders")

	rows, err := r.DB.Query(`SELECT id, name FROM genders ORDER BY id LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute paginated genders query")
		return nil, err
	}
	defer rows.Close()

	var genders []*model.Gender
	for rows.Next() {
		var g model.Gender
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genders = append(genders, &g)
	}
	return genders, rows.Err()
}

func (r *GeoRepository) GetAllStates() ([]*model.State, error) {
	rows, err := r.DB.Query(`SELECT id, name, uf FROM states ORDER BY id`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all states")
		return nil, err
	}
	defer rows.Close()

	var states []*model.State
	for rows.Next() {
		var s model.State
		if err := rows.Scan(&s.ID, &s.Name, &s.UF); err != nil {
			return nil, err
		}
		states = append(states, &s)
	}
	return states, rows.Err()
}

// CreateCity adds a city under an existing state.
func (r *GeoRepository) CreateCity(city *model.City) error {
	log := logger.Log.WithFields(logrus.Fields{
		"state_id": city.StateID,
		"name":     city.Name,
	})
	log.Info("Executing query to create a new city")

	query := `INSERT INTO cities (state_id, name) VALUES ($1, $2) RETURNING id`
	err := r.DB.QueryRow(query, city.StateID, city.Name).Scan(&city.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create city query")
		return err
	}
	return nil
}

func (r *GeoRepository) GetCitiesByState(stateID int) ([]*model.City, error) {
	log := logger.Log.WithField("state_id", stateID)
	log.Info("Executing query to get cities by state")

	rows, err := r.DB.Query(`SELECT id, state_id, name FROM cities WHERE state_id = $1 ORDER BY name`, stateID)
	if err != nil {
		log.WithError(err).Error("Failed to execute cities by state query")
		return nil, err
	}
	defer rows.Close()

	var cities []*model.City
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.StateID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, &c)
	}
	return cities, rows.Err()
}
