package dbHelpers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RemoteState/secondlife-server/database"
	"github.com/RemoteState/secondlife-server/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null"
)

const itemColumns = `
			id,
			name,
			description,
			price,
			original_price,
			condition,
			location,
			category,
			seller_name,
			seller_phone,
			rating,
			review_count,
			liked,
			is_active,
			created_at,
			updated_at`

// PostgresStore keeps items in PostgreSQL with images in a separate item_images table.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type itemRow struct {
	ID            string       `db:"id"`
	Name          string       `db:"name"`
	Description   string       `db:"description"`
	Price         float64      `db:"price"`
	OriginalPrice null.Float64 `db:"original_price"`
	Condition     string       `db:"condition"`
	Location      string       `db:"location"`
	Category      string       `db:"category"`
	SellerName    string       `db:"seller_name"`
	SellerPhone   string       `db:"seller_phone"`
	Rating        null.Float64 `db:"rating"`
	ReviewCount   int          `db:"review_count"`
	Liked         bool         `db:"liked"`
	IsActive      bool         `db:"is_active"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (r itemRow) toItem(images []models.Image) models.Item {
	if images == nil {
		images = make([]models.Image, 0)
	}
	return models.Item{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Condition:     models.Condition(r.Condition),
		Location:      r.Location,
		Category:      r.Category,
		Images:        images,
		Seller:        models.Seller{Name: r.SellerName, Phone: r.SellerPhone},
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		Liked:         r.Liked,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (s *PostgresStore) Name() string {
	return "postgres"
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListItems returns a page of active items matching the filter along with the total count
func (s *PostgresStore) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, int64, error) {
	f := buildItemsFilter(filter)

	var total int64
	countSQL := `SELECT count(*) FROM items ` + f.where()
	if err := s.db.GetContext(ctx, &total, countSQL, f.args...); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count items")
	}

	SQL := fmt.Sprintf(`SELECT %s
		FROM items
		%s
		%s
		LIMIT %s OFFSET %s`,
		itemColumns, f.where(), orderByClause(filter.Sort), f.arg(filter.Limit), f.arg(filter.Skip()))

	rows := make([]itemRow, 0, filter.Limit)
	if err := s.db.SelectContext(ctx, &rows, SQL, f.args...); err != nil {
		return nil, 0, errors.Wrap(err, "failed to select items")
	}

	ids := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	images, err := getImagesByItemIDs(ctx, s.db, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toItem(images[rows[i].ID]))
	}
	return items, total, nil
}

// GetItemByID gets the item details for a given id, archived or not
func (s *PostgresStore) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrItemNotFound
	}

	SQL := `SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1`

	var row itemRow
	if err := s.db.GetContext(ctx, &row, SQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "failed to get item %s", id)
	}

	images, err := getImagesByItemIDs(ctx, s.db, []string{row.ID})
	if err != nil {
		return nil, err
	}

	item := row.toItem(images[row.ID])
	return &item, nil
}

// InsertItem creates a new item entry along with its images in one transaction
func (s *PostgresStore) InsertItem(ctx context.Context, item *models.Item) error {
	id := uuid.New().String()
	now := time.Now().UTC()

	err := database.Tx(s.db, func(tx *sqlx.Tx) error {
		SQL := `INSERT INTO items(id, name, description, price, original_price, condition, location, category,
				seller_name, seller_phone, rating, review_count, liked, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`
		_, err := tx.ExecContext(ctx, SQL, id, item.Name, item.Description, item.Price, item.OriginalPrice,
			string(item.Condition), item.Location, item.Category, item.Seller.Name, item.Seller.Phone,
			item.Rating, item.ReviewCount, item.Liked, item.IsActive, now)
		if err != nil {
			return errors.Wrap(err, "failed to insert item")
		}
		return insertItemImages(ctx, tx, id, item.Images)
	})
	if err != nil {
		return err
	}

	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// ToggleLike flips the liked flag in place and returns its new value
func (s *PostgresStore) ToggleLike(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, models.ErrItemNotFound
	}

	SQL := `UPDATE items
			SET liked      = NOT liked,
				updated_at = $2
			WHERE id = $1
			RETURNING liked`

	var liked bool
	if err := s.db.GetContext(ctx, &liked, SQL, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, models.ErrItemNotFound
		}
		return false, errors.Wrapf(err, "failed to toggle like for item %s", id)
	}
	return liked, nil
}

// ArchiveItem soft deletes a given item
func (s *PostgresStore) ArchiveItem(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrItemNotFound
	}

	SQL := `UPDATE items
			SET is_active  = FALSE,
				updated_at = $2
			WHERE id = $1`
	result, err := s.db.ExecContext(ctx, SQL, id, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "failed to archive item %s", id)
	}
	affectedCount, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affectedCount == 0 {
		return models.ErrItemNotFound
	}
	return nil
}
