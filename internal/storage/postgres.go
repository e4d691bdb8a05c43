package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/polycopy/polyscore/pkg/types"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// NewPostgresStorageWithDB wraps an existing connection. Used in tests.
func NewPostgresStorageWithDB(db *sql.DB, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// GetMarket returns the stored metadata for a condition ID.
func (p *PostgresStorage) GetMarket(ctx context.Context, conditionID string) (types.MarketMetadata, bool, error) {
	query := `
		SELECT condition_id, title, category, tags, bet_structure,
		       current_price, volume_total, volume_1wk,
		       start_time, end_time, game_start_time
		FROM markets
		WHERE condition_id = $1
	`

	var m types.MarketMetadata
	var tags pq.StringArray
	var start, end, gameStart sql.NullTime

	err := p.db.QueryRowContext(ctx, query, conditionID).Scan(
		&m.ConditionID,
		&m.Title,
		&m.Category,
		&tags,
		&m.BetStructure,
		&m.CurrentPrice,
		&m.VolumeTotal,
		&m.Volume1Week,
		&start,
		&end,
		&gameStart,
	)
	if err == sql.ErrNoRows {
		return types.MarketMetadata{}, false, nil
	}
	if err != nil {
		return types.MarketMetadata{}, false, fmt.Errorf("select market: %w", err)
	}

	m.Tags = tags
	m.StartTime = nullableTime(start)
	m.EndTime = nullableTime(end)
	m.GameStartTime = nullableTime(gameStart)

	return m, true, nil
}

// UpsertMarket inserts or replaces a market record. The last write for a
// condition ID wins.
func (p *PostgresStorage) UpsertMarket(ctx context.Context, m types.MarketMetadata) error {
	query := `
		INSERT INTO markets (
			condition_id, title, category, tags, bet_structure,
			current_price, volume_total, volume_1wk,
			start_time, end_time, game_start_time, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
		)
		ON CONFLICT (condition_id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			bet_structure = EXCLUDED.bet_structure,
			current_price = EXCLUDED.current_price,
			volume_total = EXCLUDED.volume_total,
			volume_1wk = EXCLUDED.volume_1wk,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			game_start_time = EXCLUDED.game_start_time,
			updated_at = NOW()
	`

	_, err := p.db.ExecContext(ctx, query,
		m.ConditionID,
		m.Title,
		m.Category,
		pq.Array(m.Tags),
		m.BetStructure,
		m.CurrentPrice,
		m.VolumeTotal,
		m.Volume1Week,
		timeOrNull(m.StartTime),
		timeOrNull(m.EndTime),
		timeOrNull(m.GameStartTime),
	)
	if err != nil {
		return fmt.Errorf("upsert market: %w", err)
	}

	p.logger.Debug("market-upserted",
		zap.String("condition-id", m.ConditionID))

	return nil
}

// LookupTags returns niche mappings for the given tags ordered by ascending
// specificity.
func (p *PostgresStorage) LookupTags(ctx context.Context, tags []string) ([]types.TagNiche, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	query := `
		SELECT tag, niche, market_type, specificity
		FROM tag_niches
		WHERE tag = ANY($1)
		ORDER BY specificity ASC
	`

	rows, err := p.db.QueryContext(ctx, query, pq.Array(tags))
	if err != nil {
		return nil, fmt.Errorf("select tag niches: %w", err)
	}
	defer rows.Close()

	var out []types.TagNiche
	for rows.Next() {
		var tn types.TagNiche
		if err := rows.Scan(&tn.Tag, &tn.Niche, &tn.MarketType, &tn.Specificity); err != nil {
			return nil, fmt.Errorf("scan tag niche: %w", err)
		}
		out = append(out, tn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag niches: %w", err)
	}

	return out, nil
}

// GlobalStats returns lifetime stats for a wallet, or nil when the trader
// has no history.
func (p *PostgresStorage) GlobalStats(ctx context.Context, wallet string) (*types.TraderGlobalStats, error) {
	query := `
		SELECT payload, updated_at
		FROM trader_stats
		WHERE wallet = $1
	`

	var payload []byte
	var updatedAt time.Time

	err := p.db.QueryRowContext(ctx, query, wallet).Scan(&payload, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select trader stats: %w", err)
	}

	stats, err := decodeGlobalStats(wallet, payload, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("trader %s: %w", wallet, err)
	}

	return stats, nil
}

// NicheProfiles returns all per-niche profile rows for a wallet.
func (p *PostgresStorage) NicheProfiles(ctx context.Context, wallet string) ([]types.NicheProfile, error) {
	query := `
		SELECT niche, bet_structure, price_bracket, payload
		FROM niche_profiles
		WHERE wallet = $1
	`

	rows, err := p.db.QueryContext(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("select niche profiles: %w", err)
	}
	defer rows.Close()

	var out []types.NicheProfile
	for rows.Next() {
		var niche, structure, bracket string
		var payload []byte
		if err := rows.Scan(&niche, &structure, &bracket, &payload); err != nil {
			return nil, fmt.Errorf("scan niche profile: %w", err)
		}

		profile, err := decodeNicheProfile(wallet, niche, structure, bracket, payload)
		if err != nil {
			p.logger.Warn("niche-profile-skipped",
				zap.String("wallet", wallet),
				zap.String("niche", niche),
				zap.Error(err))
			continue
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate niche profiles: %w", err)
	}

	return out, nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timeOrNull(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
