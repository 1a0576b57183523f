package handlers

import (
	"context"
	"time"

	"github.com/RemoteState/secondlife-server/media"
	"github.com/RemoteState/secondlife-server/models"
	"github.com/RemoteState/secondlife-server/utils"
)

// toItemView shapes a stored item for clients.
func (h *Handler) toItemView(ctx context.Context, item *models.Item, now time.Time) (models.ItemView, error) {
	urls, err := media.ResolveURLs(ctx, h.Media, item.Images)
	if err != nil {
		return models.ItemView{}, err
	}

	image := models.PlaceholderImage
	if len(urls) > 0 {
		image = urls[0]
	}

	return models.ItemView{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		Price:         utils.FormatPrice(item.Price),
		OriginalPrice: utils.FormatOptionalPrice(item.OriginalPrice),
		Condition:     utils.Capitalize(string(item.Condition)),
		Location:      item.Location,
		Category:      item.Category,
		Image:         image,
		Images:        urls,
		Seller:        item.Seller.Name,
		SellerPhone:   item.Seller.Phone,
		Rating:        utils.DisplayRating(item.ID, item.Rating),
		ReviewCount:   item.ReviewCount,
		Liked:         item.Liked,
		PostedTime:    utils.PostedTime(item.CreatedAt, now),
		CreatedAt:     item.CreatedAt,
	}, nil
}

func (h *Handler) toItemViews(ctx context.Context, items []models.Item, now time.Time) ([]models.ItemView, error) {
	views := make([]models.ItemView, 0, len(items))
	for i := range items {
		view, err := h.toItemView(ctx, &items[i], now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
