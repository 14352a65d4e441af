package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookflow/config"
	"bookflow/database"
	"bookflow/models"
)

// MongoBookingRepo is the MongoDB-backed booking store. Double-booking is
// prevented by a partial unique index on selected_slot.start filtered to
// active statuses (see indexes.go): the insert itself is the conditional
// write, no read-check-write gap.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a repository bound to the bookings collection
// and ensures its indexes.
func NewMongoBookingRepo() *MongoBookingRepo {
	coll := database.MongoClient.Database(config.AppConfig.MongoDBName).Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}
	repo.ensureIndexes()
	return repo
}

var activeStatuses = bson.A{models.BookingHeld, models.BookingConfirmed}

func (r *MongoBookingRepo) InsertHold(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert hold failed: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) FindByID(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID, "user_id": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking failed: %w", err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) FindActiveInWindow(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":              bson.M{"$in": activeStatuses},
		"selected_slot.start": bson.M{"$lt": to},
		"selected_slot.end":   bson.M{"$gt": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "selected_slot.start", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find active bookings failed: %w", err)
	}
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode active bookings failed: %w", err)
	}
	return out, nil
}

func (r *MongoBookingRepo) FindExpiredHeld(ctx context.Context, now time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":          models.BookingHeld,
		"hold_expires_at": bson.M{"$lte": now},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find expired holds failed: %w", err)
	}
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode expired holds failed: %w", err)
	}
	return out, nil
}

// transition applies a conditional status update and returns the updated
// document, or ErrNotFound when the precondition no longer holds.
func (r *MongoBookingRepo) transition(ctx context.Context, filter, set bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking transition failed: %w", err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) SetPaymentLink(ctx context.Context, bookingID, link string, now time.Time) (*models.Booking, error) {
	set := bson.M{
		"payment_link": link,
		"updated_at":   now,
	}
	return r.transition(ctx, bson.M{"id": bookingID, "status": models.BookingHeld}, set)
}

func (r *MongoBookingRepo) Confirm(ctx context.Context, bookingID, transactionID string, now time.Time) (*models.Booking, error) {
	set := bson.M{
		"status":         models.BookingConfirmed,
		"payment_status": models.PaymentCompleted,
		"transaction_id": transactionID,
		"updated_at":     now,
	}
	return r.transition(ctx, bson.M{"id": bookingID, "status": models.BookingHeld}, set)
}

func (r *MongoBookingRepo) AnnotateCalendar(ctx context.Context, bookingID, eventLink, attendeesWarning, calendarWarning string, now time.Time) (*models.Booking, error) {
	set := bson.M{"updated_at": now}
	if eventLink != "" {
		set["calendar_event_link"] = eventLink
	}
	if attendeesWarning != "" {
		set["attendees_warning"] = attendeesWarning
	}
	if calendarWarning != "" {
		set["calendar_warning"] = calendarWarning
	}
	return r.transition(ctx, bson.M{"id": bookingID, "status": models.BookingConfirmed}, set)
}

func (r *MongoBookingRepo) ReleaseHold(ctx context.Context, bookingID, reason string, now time.Time) (*models.Booking, error) {
	set := bson.M{
		"status":         models.BookingPending,
		"payment_status": models.PaymentFailed,
		"failure_reason": reason,
		"updated_at":     now,
	}
	return r.transition(ctx, bson.M{"id": bookingID, "status": models.BookingHeld}, set)
}

func (r *MongoBookingRepo) Cancel(ctx context.Context, userID, bookingID string, now time.Time) (*models.Booking, error) {
	filter := bson.M{
		"id":      bookingID,
		"user_id": userID,
		"status":  bson.M{"$nin": bson.A{models.BookingConfirmed, models.BookingCancelled, models.BookingExpired}},
	}
	set := bson.M{
		"status":     models.BookingCancelled,
		"updated_at": now,
	}
	return r.transition(ctx, filter, set)
}

func (r *MongoBookingRepo) MarkExpired(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	filter := bson.M{
		"id":              bookingID,
		"status":          models.BookingHeld,
		"hold_expires_at": bson.M{"$lte": now},
	}
	_, err := r.transition(ctx, filter, bson.M{
		"status":     models.BookingExpired,
		"updated_at": now,
	})
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bookings failed: %w", err)
	}
	return out, nil
}
