package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamasit07/cep-connect4/backend/internal/domain"
)

type AddressRepo struct {
	DB *sql.DB
}

func NewAddressRepo(db *sql.DB) *AddressRepo {
	return &AddressRepo{DB: db}
}

// SaveAddress stores addr under addr.ID. Ids are drawn at random from a
// small range, so an existing row with the same id is overwritten.
func (r *AddressRepo) SaveAddress(ctx context.Context, addr domain.Address) error {
	query := `
	INSERT INTO address (id, cep, logradouro, complemento, bairro, localidade, uf, ibge, ddd, saved_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		cep = EXCLUDED.cep,
		logradouro = EXCLUDED.logradouro,
		complemento = EXCLUDED.complemento,
		bairro = EXCLUDED.bairro,
		localidade = EXCLUDED.localidade,
		uf = EXCLUDED.uf,
		ibge = EXCLUDED.ibge,
		ddd = EXCLUDED.ddd,
		saved_at = EXCLUDED.saved_at;
	`

	_, err := r.DB.ExecContext(ctx, query,
		addr.ID, addr.CEP, addr.Logradouro, addr.Complemento, addr.Bairro,
		addr.Localidade, addr.UF, addr.IBGE, addr.DDD, addr.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	return nil
}

func (r *AddressRepo) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	query := `
	SELECT id, cep, logradouro, complemento, bairro, localidade, uf, ibge, ddd, saved_at
	FROM address
	WHERE id = $1;
	`

	var addr domain.Address
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&addr.ID,
		&addr.CEP,
		&addr.Logradouro,
		&addr.Complemento,
		&addr.Bairro,
		&addr.Localidade,
		&addr.UF,
		&addr.IBGE,
		&addr.DDD,
		&addr.SavedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &addr, nil
}

// CleanupOldAddresses deletes addresses saved more than daysToKeep days ago
func (r *AddressRepo) CleanupOldAddresses(ctx context.Context, daysToKeep int) (int64, error) {
	query := `DELETE FROM address WHERE saved_at < NOW() - make_interval(days => $1);`

	result, err := r.DB.ExecContext(ctx, query, daysToKeep)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old addresses: %w", err)
	}
	return result.RowsAffected()
}
