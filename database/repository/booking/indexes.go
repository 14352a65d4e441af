package bookingRepo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookflow/models"
)

// ensureIndexes creates the indexes the booking store relies on. The partial
// unique index on selected_slot.start is what makes InsertHold a conditional
// write: two racing holds on the same slot cannot both land while one of
// them is held or confirmed.
func (r *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "selected_slot.start", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_slot").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []models.BookingStatus{models.BookingHeld, models.BookingConfirmed}},
				}),
		},
		// Sweep query: all held bookings with hold_expires_at <= now.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "hold_expires_at", Value: 1}},
			Options: options.Index().SetName("status_hold_expiry_idx"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Fatalf("failed to create booking indexes: %v", err)
	}
}
