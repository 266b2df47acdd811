package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"memberportal/internal/members/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/platform/tx"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const memberColumns = `id, id_number, first_name, last_name, email, cellphone, address,
	province, municipality, ward, voting_station, membership_type, membership_number,
	payment_reference, status, join_date, updated_at`

// Save upserts on identity number. A re-registration keeps the original id
// and join date.
func (s *PostgresStore) Save(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id_number) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			cellphone = EXCLUDED.cellphone,
			address = EXCLUDED.address,
			province = EXCLUDED.province,
			municipality = EXCLUDED.municipality,
			ward = EXCLUDED.ward,
			voting_station = EXCLUDED.voting_station,
			membership_type = EXCLUDED.membership_type,
			membership_number = EXCLUDED.membership_number,
			payment_reference = EXCLUDED.payment_reference,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, join_date
	`
	var rawID string
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx, query,
		m.ID.String(), m.IDNumber, m.FirstName, m.LastName, m.Email, m.Cellphone, m.Address,
		m.Province, m.Municipality, m.Ward, m.VotingStation, m.MembershipType, m.MembershipNumber,
		m.PaymentReference, string(m.Status), m.JoinDate, m.UpdatedAt,
	).Scan(&rawID, &m.JoinDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("save member: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("save member: %w", err)
	}
	memberID, err := id.ParseMemberID(rawID)
	if err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	m.ID = memberID
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, memberID id.MemberID) (*models.Member, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, memberID.String())
	return scanMember(row)
}

func (s *PostgresStore) FindByIDNumber(ctx context.Context, idNumber string) (*models.Member, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id_number = $1`, idNumber)
	return scanMember(row)
}

// List filters by province with an array parameter so any number of
// provinces costs one query.
func (s *PostgresStore) List(ctx context.Context, f models.Filter) ([]*models.Member, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if len(f.Provinces) > 0 {
		args = append(args, pq.Array(f.Provinces))
		where = append(where, fmt.Sprintf("province = ANY($%d)", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR id_number ILIKE $%d OR membership_number ILIKE $%d)", n, n, n, n))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := tx.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT count(*) FROM members WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM members WHERE %s ORDER BY join_date DESC, membership_number LIMIT $%d OFFSET $%d`,
		memberColumns, clause, len(args)-1, len(args))
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []*models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	return out, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.Member, error) {
	var (
		m      models.Member
		rawID  string
		status string
	)
	err := row.Scan(&rawID, &m.IDNumber, &m.FirstName, &m.LastName, &m.Email, &m.Cellphone, &m.Address,
		&m.Province, &m.Municipality, &m.Ward, &m.VotingStation, &m.MembershipType, &m.MembershipNumber,
		&m.PaymentReference, &status, &m.JoinDate, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	memberID, err := id.ParseMemberID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.ID = memberID
	m.Status = models.Status(status)
	return &m, nil
}
