package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nutrition-tracker/api/internal/nutrition"
)

// FoodLog is one row of food_logs. Nutrient groups live in JSON columns
// rather than separate tables.
type FoodLog struct {
	ID             uint   `gorm:"primaryKey"`
	Description    string `gorm:"index"`
	Calories       float64
	Macronutrients datatypes.JSONType[nutrition.Macronutrients]
	Micronutrients datatypes.JSONType[nutrition.Micronutrients]
	CreatedAt      time.Time `gorm:"index"`
}

func (FoodLog) TableName() string { return "food_logs" }

func (f FoodLog) Record() nutrition.Record {
	return nutrition.Record{
		ID:             f.ID,
		Description:    f.Description,
		Calories:       f.Calories,
		Macronutrients: f.Macronutrients.Data(),
		Micronutrients: f.Micronutrients.Data(),
		CreatedAt:      f.CreatedAt,
	}
}

type GormRepo struct {
	DB  *gorm.DB
	now func() time.Time
}

// NewGormRepo migrates food_logs and returns the repository.
func NewGormRepo(db *gorm.DB) (*GormRepo, error) {
	if err := db.AutoMigrate(&FoodLog{}); err != nil {
		return nil, fmt.Errorf("migrate food_logs: %w", err)
	}
	return &GormRepo{DB: db, now: time.Now}, nil
}

func (r *GormRepo) Create(ctx context.Context, rec nutrition.Record) (nutrition.Record, error) {
	row := FoodLog{
		Description:    rec.Description,
		Calories:       rec.Calories,
		Macronutrients: datatypes.NewJSONType(rec.Macronutrients),
		Micronutrients: datatypes.NewJSONType(rec.Micronutrients),
		CreatedAt:      r.now().UTC(),
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return nutrition.Record{}, fmt.Errorf("insert food log: %w", err)
	}
	return row.Record(), nil
}

func (r *GormRepo) List(ctx context.Context, skip, limit int) ([]nutrition.Record, error) {
	skip, limit = clampPage(skip, limit)
	var rows []FoodLog
	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	out := make([]nutrition.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Record())
	}
	return out, nil
}

func (r *GormRepo) Get(ctx context.Context, id uint) (nutrition.Record, error) {
	var row FoodLog
	err := r.DB.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nutrition.Record{}, ErrNotFound
	}
	if err != nil {
		return nutrition.Record{}, fmt.Errorf("get food log %d: %w", id, err)
	}
	return row.Record(), nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
}

// OpenPostgres opens dsn through the pgx stdlib driver, tunes the pool and
// pings before handing the connection to gorm.
func OpenPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
}

// OpenSQLite opens a pure-Go sqlite database. One connection only, so
// ":memory:" databases are shared by every query.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
