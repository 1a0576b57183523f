package dbHelpers

import (
	"context"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type imageRow struct {
	ItemID   string `db:"item_id"`
	URL      string `db:"url"`
	PublicID string `db:"public_id"`
}

// insertItemImages stores the images of an item keeping their upload order
func insertItemImages(ctx context.Context, tx sqlx.ExecerContext, itemID string, images []models.Image) error {
	SQL := `INSERT INTO item_images(item_id, position, url, public_id) VALUES ($1, $2, $3, $4)`
	for i := range images {
		if _, err := tx.ExecContext(ctx, SQL, itemID, i, images[i].URL, images[i].PublicID); err != nil {
			return errors.Wrapf(err, "failed to store image %d of item %s", i, itemID)
		}
	}
	return nil
}

// getImagesByItemIDs returns images grouped by item id, each group in upload order
func getImagesByItemIDs(ctx context.Context, db sqlx.QueryerContext, itemIDs []string) (map[string][]models.Image, error) {
	imagesByItem := make(map[string][]models.Image, len(itemIDs))
	if len(itemIDs) == 0 {
		return imagesByItem, nil
	}

	SQL := `SELECT item_id, url, public_id
		FROM item_images
		WHERE item_id = ANY ($1::uuid[])
		ORDER BY item_id, position`

	rows := make([]imageRow, 0)
	if err := sqlx.SelectContext(ctx, db, &rows, SQL, pq.Array(itemIDs)); err != nil {
		return nil, errors.Wrap(err, "failed to get item images")
	}

	for _, r := range rows {
		imagesByItem[r.ItemID] = append(imagesByItem[r.ItemID], models.Image{URL: r.URL, PublicID: r.PublicID})
	}
	return imagesByItem, nil
}
