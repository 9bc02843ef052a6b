package authstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/bl815v/Tiendo/pkg/models/passwd"
)

const customerColumns = `id_cliente, nombre, apellido, correo, contrasena, telefono, direccion, ciudad, pais, fecha_registro`

type sqlAuthStore struct {
	db     *sql.DB
	conn   db.Conn
	log    *slog.Logger
	hasher passwd.Hasher
	now    func() time.Time
}

func (s *sqlAuthStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlAuthStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CheckEmailExists")()

	var n int64
	err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM cliente WHERE correo = ?`, models.NormalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, logutil.LogAndWrapErr(s.log, "failed to check email", models.NewDatabaseError(err))
	}
	return n > 0, nil
}

func (s *sqlAuthStore) Create(ctx context.Context, args models.CustomerParams) (*models.Customer, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreateCustomer")()
	errMsg := "failed to create customer"

	args.Normalize()
	if err := args.ValidateCreate(); err != nil {
		return nil, logutil.DebugAndWrapErr(s.log, errMsg, err)
	}

	exists, err := s.CheckEmailExists(ctx, args.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, logutil.DebugAndWrapErr(s.log, errMsg,
			models.NewDatabaseError(db.NewDuplicateKeyError("correo", nil)))
	}

	hash, err := s.hasher.Hash(args.Password)
	if err != nil {
		if errors.Is(err, passwd.ErrPasswordTooLong) {
			return nil, logutil.DebugAndWrapErr(s.log, errMsg, models.NewValidationError(err.Error()))
		}
		return nil, logutil.LogAndWrapErr(s.log, errMsg, err)
	}

	var id int64
	err = s.conn.QueryRow(ctx, `
		INSERT INTO cliente (nombre, apellido, correo, contrasena, telefono, direccion, ciudad, pais, fecha_registro)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id_cliente`,
		args.FirstName, args.LastName, args.Email, hash,
		db.NullString(args.Phone), db.NullString(args.Address), db.NullString(args.City), db.NullString(args.Country),
		db.UTC(s.now()),
	).Scan(&id)
	if err != nil {
		// a concurrent insert can still win the race for the e-mail
		return nil, logutil.LogAndWrapErr(s.log, errMsg,
			models.NewDatabaseError(db.WrapConstraintError(err)))
	}
	return s.Get(ctx, id)
}

func (s *sqlAuthStore) List(ctx context.Context, page models.Page) ([]*models.Customer, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListCustomers")()
	errMsg := "failed to list customers"

	rows, err := s.conn.Query(ctx,
		`SELECT `+customerColumns+` FROM cliente ORDER BY id_cliente LIMIT ? OFFSET ?`,
		page.Limit, page.Skip)
	if err != nil {
		return nil, logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(err))
	}
	defer rows.Close()

	customers := make([]*models.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(err))
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(err))
	}
	return customers, nil
}

func (s *sqlAuthStore) Get(ctx context.Context, id int64) (*models.Customer, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetCustomer", "id", id)()
	return s.getOne(ctx, "failed to get customer by id",
		`SELECT `+customerColumns+` FROM cliente WHERE id_cliente = ?`, id)
}

func (s *sqlAuthStore) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetCustomerByEmail")()
	return s.getOne(ctx, "failed to get customer by email",
		`SELECT `+customerColumns+` FROM cliente WHERE correo = ?`, models.NormalizeEmail(email))
}

func (s *sqlAuthStore) getOne(ctx context.Context, errMsg, query string, arg any) (*models.Customer, error) {
	c, err := scanCustomer(s.conn.QueryRow(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		id, _ := arg.(int64)
		return nil, logutil.DebugAndWrapErr(s.log, errMsg,
			models.NewNotFoundError("cliente", id, "Cliente no encontrado"))
	}
	if err != nil {
		return nil, logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(err))
	}
	return c, nil
}

func (s *sqlAuthStore) Update(ctx context.Context, id int64, args models.CustomerParams) (*models.Customer, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateCustomer", "id", id)()
	errMsg := "failed to update customer"

	args.Normalize()
	if err := args.Validate(); err != nil {
		return nil, logutil.DebugAndWrapErr(s.log, errMsg, err)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if args.Email != current.Email {
		exists, err := s.CheckEmailExists(ctx, args.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, logutil.DebugAndWrapErr(s.log, errMsg,
				models.NewDatabaseError(db.NewDuplicateKeyError("correo", nil)))
		}
	}

	hash := current.PasswordHash
	if args.Password != "" {
		hash, err = s.hasher.Hash(args.Password)
		if err != nil {
			if errors.Is(err, passwd.ErrPasswordTooLong) {
				return nil, logutil.DebugAndWrapErr(s.log, errMsg, models.NewValidationError(err.Error()))
			}
			return nil, logutil.LogAndWrapErr(s.log, errMsg, err)
		}
	}

	res, err := s.conn.Exec(ctx, `
		UPDATE cliente
		SET nombre = ?, apellido = ?, correo = ?, contrasena = ?, telefono = ?, direccion = ?, ciudad = ?, pais = ?
		WHERE id_cliente = ?`,
		args.FirstName, args.LastName, args.Email, hash,
		db.NullString(args.Phone), db.NullString(args.Address), db.NullString(args.City), db.NullString(args.Country),
		id,
	)
	if err != nil {
		return nil, logutil.LogAndWrapErr(s.log, errMsg,
			models.NewDatabaseError(db.WrapConstraintError(err)))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, logutil.DebugAndWrapErr(s.log, errMsg,
			models.NewNotFoundError("cliente", id, "Cliente no encontrado"))
	}
	return s.Get(ctx, id)
}

func (s *sqlAuthStore) Delete(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeleteCustomer", "id", id)()
	errMsg := "failed to delete customer"

	res, err := s.conn.Exec(ctx, `DELETE FROM cliente WHERE id_cliente = ?`, id)
	if err != nil {
		return logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(db.WrapConstraintError(err)))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(err))
	}
	if n == 0 {
		return logutil.DebugAndWrapErr(s.log, errMsg,
			models.NewNotFoundError("cliente", id, "Cliente no encontrado"))
	}
	return nil
}

func (s *sqlAuthStore) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	c, err := s.GetByEmail(ctx, email)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !passwd.CheckPasswordHash(password, c.PasswordHash) {
		s.log.Debug("customer password mismatch", "id", c.ID)
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (*models.Customer, error) {
	var (
		c                             models.Customer
		phone, address, city, country sql.NullString
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash,
		&phone, &address, &city, &country, &c.RegisteredAt)
	if err != nil {
		return nil, err
	}
	c.Phone = db.StringPtr(phone)
	c.Address = db.StringPtr(address)
	c.City = db.StringPtr(city)
	c.Country = db.StringPtr(country)
	c.RegisteredAt = c.RegisteredAt.UTC()
	return &c, nil
}
