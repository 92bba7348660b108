package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTokenColisao reports whether err is the unique violation on the consent
// token index.
func IsTokenColisao(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == "uidx_consentimentos_token"
	}
	return false
}

// PrimeiroNome returns only the first name, the most we expose on the public
// consent page.
func PrimeiroNome(nome string) string {
	nome = strings.TrimSpace(nome)
	if i := strings.IndexByte(nome, ' '); i > 0 {
		return nome[:i]
	}
	return nome
}
