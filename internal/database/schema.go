package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables behind profiles, advertising_spaces and
// bookings plus the auth tables. Statements are idempotent. Timestamps keep
// microseconds so listings created in the same second still sort by age.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('building_owner','vehicle_owner','brand_company','admin') NOT NULL,
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME(6)  NOT NULL,
		updated_at    DATETIME(6)  NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    CHAR(36)        NOT NULL,
		token_hash CHAR(64)        NOT NULL UNIQUE,
		expires_at DATETIME(6)     NOT NULL,
		revoked_at DATETIME(6)     NULL,
		created_at DATETIME(6)     NOT NULL,
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id                  CHAR(36)     NOT NULL PRIMARY KEY,
		user_id             CHAR(36)     NOT NULL UNIQUE,
		first_name          VARCHAR(100) NOT NULL,
		last_name           VARCHAR(100) NOT NULL,
		role                ENUM('building_owner','vehicle_owner','brand_company','admin') NOT NULL DEFAULT 'building_owner',
		company_name        VARCHAR(255) NULL,
		phone               VARCHAR(32)  NULL,
		avatar_url          VARCHAR(512) NULL,
		bio                 TEXT         NULL,
		website             VARCHAR(255) NULL,
		verification_status VARCHAR(20)  NULL DEFAULT 'pending',
		created_at          DATETIME(6)  NOT NULL,
		updated_at          DATETIME(6)  NOT NULL,
		CONSTRAINT fk_profile_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS advertising_spaces (
		id                  CHAR(36)      NOT NULL PRIMARY KEY,
		owner_id            CHAR(36)      NOT NULL,
		title               VARCHAR(255)  NOT NULL,
		description         TEXT          NULL,
		location            VARCHAR(255)  NOT NULL,
		space_type          VARCHAR(20)   NOT NULL,
		price_per_month     DECIMAL(12,2) NULL,
		dimensions          VARCHAR(100)  NULL,
		images              JSON          NULL,
		amenities           JSON          NULL,
		availability_status VARCHAR(20)   NULL DEFAULT 'available',
		created_at          DATETIME(6)   NOT NULL,
		updated_at          DATETIME(6)   NOT NULL,
		KEY idx_spaces_search (availability_status, space_type, created_at),
		KEY idx_spaces_owner (owner_id),
		CONSTRAINT chk_spaces_price CHECK (price_per_month IS NULL OR price_per_month >= 0),
		CONSTRAINT advertising_spaces_owner_id_fkey FOREIGN KEY (owner_id) REFERENCES profiles (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id               CHAR(36)      NOT NULL PRIMARY KEY,
		space_id         CHAR(36)      NOT NULL,
		advertiser_id    CHAR(36)      NOT NULL,
		start_date       DATE          NOT NULL,
		end_date         DATE          NOT NULL,
		total_amount     DECIMAL(12,2) NOT NULL,
		booking_status   VARCHAR(20)   NULL DEFAULT 'pending',
		payment_status   VARCHAR(20)   NULL DEFAULT 'unpaid',
		campaign_details JSON          NULL,
		created_at       DATETIME(6)   NOT NULL,
		updated_at       DATETIME(6)   NOT NULL,
		KEY idx_bookings_advertiser (advertiser_id),
		KEY idx_bookings_space (space_id),
		CONSTRAINT chk_bookings_amount CHECK (total_amount >= 0),
		CONSTRAINT bookings_space_id_fkey FOREIGN KEY (space_id) REFERENCES advertising_spaces (id),
		CONSTRAINT bookings_advertiser_id_fkey FOREIGN KEY (advertiser_id) REFERENCES profiles (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
