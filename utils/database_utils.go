// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/newsdesk/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8
)

func isTempDB(dbName string) bool {
	return strings.HasPrefix(dbName, TestDBPrefix)
}

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(os.Getenv("DB_NAME"))
}

// GetCustomizedConnection connect to any postgres db on the configured host
func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC", os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), dbName, os.Getenv("DB_PORT"))
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// CreateTempDB creates an in-memory database for testing, note that this
// function should only be called in a testing environment with test state
// manager testing.T. The database is migrated with the production schema and
// closed after the test, so every test case starts from an empty newsroom.
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	dbName := randomTestDBName()
	if !isTempDB(dbName) {
		t.Fatalf("refusing to use non-testing DB %s", dbName)
	}

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("fail to create temp DB with name %s: %s", dbName, err)
	}

	// A single connection keeps the in-memory database alive for the whole
	// test and serializes writers, sqlite does not like concurrent ones.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("cannot get the SQL DB of %s: %s", dbName, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp DB %s: %s", dbName, err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, dbName
}

// DatabaseSetupAndMigration creates or updates every table of the newsroom,
// join tables of the many2many relations included.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Publisher{},
		&model.User{},
		&model.Article{},
		&model.Newsletter{},
		&model.PasswordResetToken{},
	)
}
