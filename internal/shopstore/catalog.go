package shopstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

const (
	categoryColumns = `id_categoria, nombre, descripcion`
	productColumns  = `id_producto, nombre, descripcion, precio, imagen, id_categoria, stock`
)

func (s *sqlShopStore) CreateCategory(ctx context.Context, args models.CategoryParams) (*models.Category, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreateCategory")()
	errMsg := "failed to create category"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "categoria", 0, "")
	}

	c, err := scanCategory(s.conn.QueryRow(ctx,
		`INSERT INTO categoria (nombre, descripcion) VALUES (?, ?) RETURNING `+categoryColumns,
		args.Name, db.NullString(args.Description)))
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "categoria", 0, detailCategoryNotFound)
	}
	return c, nil
}

func (s *sqlShopStore) ListCategories(ctx context.Context, page models.Page) ([]*models.Category, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListCategories")()

	cats, err := queryAll(ctx, s.conn, scanCategory,
		`SELECT `+categoryColumns+` FROM categoria ORDER BY id_categoria LIMIT ? OFFSET ?`, page.Limit, page.Skip)
	if err != nil {
		return nil, s.wrapErr("failed to list categories", err, "categoria", 0, "")
	}
	return cats, nil
}

func (s *sqlShopStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetCategory", "id", id)()

	c, err := scanCategory(s.conn.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categoria WHERE id_categoria = ?`, id))
	if err != nil {
		return nil, s.wrapErr("failed to get category", err, "categoria", id, detailCategoryNotFound)
	}
	return c, nil
}

func (s *sqlShopStore) UpdateCategory(ctx context.Context, id int64, args models.CategoryParams) (*models.Category, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateCategory", "id", id)()
	errMsg := "failed to update category"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "categoria", id, "")
	}

	c, err := scanCategory(s.conn.QueryRow(ctx,
		`UPDATE categoria SET nombre = ?, descripcion = ? WHERE id_categoria = ? RETURNING `+categoryColumns,
		args.Name, db.NullString(args.Description), id))
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "categoria", id, detailCategoryNotFound)
	}
	return c, nil
}

func (s *sqlShopStore) DeleteCategory(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeleteCategory", "id", id)()
	return s.deleteRow(ctx, "categoria", "id_categoria", id, "categoria", detailCategoryNotFound)
}

func (s *sqlShopStore) CreateProduct(ctx context.Context, args models.ProductParams) (*models.Product, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreateProduct")()
	errMsg := "failed to create product"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", 0, "")
	}

	p, err := scanProduct(s.conn.QueryRow(ctx, `
		INSERT INTO producto (nombre, descripcion, precio, imagen, id_categoria, stock)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+productColumns,
		args.Name, db.NullString(args.Description), *args.Price, db.NullString(args.Image),
		db.NullInt64(args.CategoryID), args.Stock))
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", 0, detailProductNotFound)
	}
	return p, nil
}

func (s *sqlShopStore) ListProducts(ctx context.Context, page models.Page) ([]*models.Product, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListProducts")()

	products, err := queryAll(ctx, s.conn, scanProduct,
		`SELECT `+productColumns+` FROM producto ORDER BY id_producto LIMIT ? OFFSET ?`, page.Limit, page.Skip)
	if err != nil {
		return nil, s.wrapErr("failed to list products", err, "producto", 0, "")
	}
	return products, nil
}

func (s *sqlShopStore) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListProductsByCategory", "category_id", categoryID)()

	products, err := queryAll(ctx, s.conn, scanProduct,
		`SELECT `+productColumns+` FROM producto WHERE id_categoria = ? ORDER BY id_producto`, categoryID)
	if err != nil {
		return nil, s.wrapErr("failed to list products by category", err, "producto", 0, "")
	}
	return products, nil
}

func (s *sqlShopStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetProduct", "id", id)()

	p, err := scanProduct(s.conn.QueryRow(ctx,
		`SELECT `+productColumns+` FROM producto WHERE id_producto = ?`, id))
	if err != nil {
		return nil, s.wrapErr("failed to get product", err, "producto", id, detailProductNotFound)
	}
	return p, nil
}

func (s *sqlShopStore) UpdateProduct(ctx context.Context, id int64, args models.ProductParams) (*models.Product, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateProduct", "id", id)()
	errMsg := "failed to update product"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", id, "")
	}

	p, err := scanProduct(s.conn.QueryRow(ctx, `
		UPDATE producto
		SET nombre = ?, descripcion = ?, precio = ?, imagen = ?, id_categoria = ?, stock = ?
		WHERE id_producto = ?
		RETURNING `+productColumns,
		args.Name, db.NullString(args.Description), *args.Price, db.NullString(args.Image),
		db.NullInt64(args.CategoryID), args.Stock, id))
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", id, detailProductNotFound)
	}
	return p, nil
}

func (s *sqlShopStore) DeleteProduct(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeleteProduct", "id", id)()
	return s.deleteRow(ctx, "producto", "id_producto", id, "producto", detailProductNotFound)
}

func scanCategory(row scanner) (*models.Category, error) {
	var (
		c    models.Category
		desc sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &desc); err != nil {
		return nil, err
	}
	c.Description = db.StringPtr(desc)
	return &c, nil
}

func scanProduct(row scanner) (*models.Product, error) {
	var (
		p           models.Product
		desc, image sql.NullString
		categoryID  sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.Price, &image, &categoryID, &p.Stock); err != nil {
		return nil, err
	}
	p.Description = db.StringPtr(desc)
	p.Image = db.StringPtr(image)
	p.CategoryID = db.Int64Ptr(categoryID)
	return &p, nil
}
