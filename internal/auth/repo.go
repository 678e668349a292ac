package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportsdist/commerce/internal/commerce"
)

type Repo struct{ DB *pgxpool.Pool }

// Signup stores a new customer with a bcrypt password hash. Raw passwords
// never touch the database.
func (r *Repo) Signup(ctx context.Context, name, email, password string) (Customer, error) {
	if name == "" || email == "" || password == "" {
		return Customer{}, fmt.Errorf("name, email and password are required: %w", commerce.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Customer{}, err
	}

	c := Customer{ID: uuid.NewString(), Name: name, Email: email, Status: "active"}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO customers(id, name, email, password_hash, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		c.ID, c.Name, c.Email, string(hash), c.Status).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return Customer{}, fmt.Errorf("email already in use: %w", commerce.ErrInvalidArgument)
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Authenticate verifies a claimed credential against the stored hash.
// Unknown email and wrong password are indistinguishable to the caller.
func (r *Repo) Authenticate(ctx context.Context, email, password string) (Customer, error) {
	var c Customer
	var hash string
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, password_hash, status, created_at
		FROM customers WHERE email=$1`, email).
		Scan(&c.ID, &c.Name, &c.Email, &hash, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("invalid credentials: %w", commerce.ErrUnauthorized)
	}
	if err != nil {
		return Customer{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Customer{}, fmt.Errorf("invalid credentials: %w", commerce.ErrUnauthorized)
	}
	return c, nil
}

func (r *Repo) Get(ctx context.Context, customerID string) (Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, status, created_at
		FROM customers WHERE id=$1`, customerID).
		Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("customer %s: %w", customerID, commerce.ErrNotFound)
	}
	return c, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
