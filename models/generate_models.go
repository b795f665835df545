package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Schema tooling.

AUTO_MIGRATE=true          migrate tables on startup, then serve
GENERATE_MODELS=true       migrate, print the column report, write type-safe query
                           helpers to ./generated, then exit
GENERATE_COLUMN_REPORT=true print the column report only, then exit

Example report output:

=== COLUMN MISMATCH REPORT ===

--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_slug

--- Table: employees ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// tableModels maps every table this service owns to its model struct.
func tableModels() map[string]interface{} {
	return map[string]interface{}{
		"employees": Employee{},
		"projects":  Project{},
	}
}

// Migrate creates or alters the employees and projects tables.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(&Employee{}, &Project{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	// Set up verbose logging for migration
	verboseLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{Logger: verboseLogger})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Employee{}, Project{})

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database migration completed successfully!")

	GenerateColumnMismatchReport(os.Stdout, db)

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport writes a report of database columns that aren't accounted for in Go models
func GenerateColumnMismatchReport(w io.Writer, db *gorm.DB) int {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	mappings := tableModels()
	tables := make([]string, 0, len(mappings))
	for tableName := range mappings {
		tables = append(tables, tableName)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, tableName := range tables {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			fmt.Fprintf(w, "Error getting columns for table %s: %v\n", tableName, err)
			continue
		}
		if len(dbColumns) == 0 {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		mismatches := findColumnMismatches(dbColumns, getModelFields(db, mappings[tableName]))
		if len(mismatches) > 0 {
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Fprintf(w, "  - %s\n", col)
			}
			totalMismatches += len(mismatches)
		} else {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		}
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches
}

// getTableColumns lists the columns of tableName through the dialect's migrator,
// so the report works on postgres and sqlite alike. A missing table yields nil.
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	migrator := db.Migrator()
	if !migrator.HasTable(tableName) {
		return nil, nil
	}
	columnTypes, err := migrator.ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// getModelFields returns the column names gorm maps for model's fields
func getModelFields(db *gorm.DB, model interface{}) []string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return reflectColumnNames(db, model)
	}
	return stmt.Schema.DBNames
}

// reflectColumnNames falls back to naming-strategy column names for exported fields
func reflectColumnNames(db *gorm.DB, model interface{}) []string {
	var fields []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous || !field.IsExported() {
			continue
		}
		if column := extractColumnNameFromGormTag(field.Tag.Get("gorm")); column != "" {
			fields = append(fields, column)
			continue
		}
		fields = append(fields, db.NamingStrategy.ColumnName("", field.Name))
	}
	return fields
}

// extractColumnNameFromGormTag extracts the column name from a GORM tag
func extractColumnNameFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
