package queries

const userColumns = `id, email, username, password_hash, token_generation, created_at, updated_at`

const (
	QueryCreateUser = `
		INSERT INTO users (id, email, username, password_hash, token_generation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	QueryGetUserByID    = `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	QueryGetUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	QueryListUsers      = `SELECT ` + userColumns + ` FROM users ORDER BY username ASC;`

	QueryUpdateUsername = `
		UPDATE users
		SET username = $2, token_generation = token_generation + 1, updated_at = now()
		WHERE id = $1;
	`
	QueryUpdateEmail = `
		UPDATE users
		SET email = $2, token_generation = token_generation + 1, updated_at = now()
		WHERE id = $1;
	`
	QueryUpdatePasswordHash = `
		UPDATE users
		SET password_hash = $2, token_generation = token_generation + 1, updated_at = now()
		WHERE id = $1;
	`
	QueryDeleteUser = `DELETE FROM users WHERE id = $1;`
)
