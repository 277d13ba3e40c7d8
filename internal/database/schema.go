package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// schemaStatements create the five application tables.  Statements are
// idempotent so the bootstrap can run on every startup.  Attendance carries
// the (employee_id, attendance_date) uniqueness the monthly upsert depends
// on.  Employee references are RESTRICT: deleting an employee with history
// must surface as a conflict, never silently drop records.  Usage details
// cascade with their parent record.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name       VARCHAR(200)    NOT NULL,
		email      VARCHAR(255)    NOT NULL,
		phone      VARCHAR(50)     NULL,
		status     TINYINT(1)      NOT NULL DEFAULT 1,
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_employees_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(100)    NOT NULL,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS attendance_records (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		employee_id     BIGINT UNSIGNED NOT NULL,
		attendance_date DATE            NOT NULL,
		status          TINYINT(1)      NOT NULL,
		created_at      TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_attendance_employee_date (employee_id, attendance_date),
		CONSTRAINT fk_attendance_employee FOREIGN KEY (employee_id)
			REFERENCES employees (id) ON DELETE RESTRICT
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS item_usage_records (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		employee_id      BIGINT UNSIGNED NOT NULL,
		transaction_date DATE            NOT NULL,
		created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_item_usage_employee (employee_id),
		CONSTRAINT fk_item_usage_employee FOREIGN KEY (employee_id)
			REFERENCES employees (id) ON DELETE RESTRICT
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS item_usage_details (
		id                   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		item_usage_record_id BIGINT UNSIGNED NOT NULL,
		item_name            VARCHAR(255)    NOT NULL,
		quantity             INT             NOT NULL,
		PRIMARY KEY (id),
		KEY idx_item_usage_details_record (item_usage_record_id),
		CONSTRAINT fk_item_usage_details_record FOREIGN KEY (item_usage_record_id)
			REFERENCES item_usage_records (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// EnsureSchema applies the schema statements in order.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	log.Println("ensuring database schema...")
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	log.Println("database schema up to date")
	return nil
}
