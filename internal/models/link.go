package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Link is a history record for a QR code generated by a signed-in user.
// Only the source URL is kept; the rendered artifacts are recomputed
// on demand and never stored.
type Link struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"-" bson:"user_id"`
	OriginalURL string             `json:"url" bson:"original_url"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}

// GenerateQRRequest is the JSON body for POST /links/generate-qr.
type GenerateQRRequest struct {
	URL string `json:"url"`
}

// GenerateQRResponse carries the rendered code as a PNG data URI. LinkID
// is an opaque correlation token for the client; it does not address a
// stored resource.
type GenerateQRResponse struct {
	LinkID string `json:"linkId"`
	QRCode string `json:"qrCode"`
}
