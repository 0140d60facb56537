package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noteshub/noteshub-api/models"
)

// PageSize is the fixed page size of the public note listing
const PageSize = 12

// Price band values accepted by the listing endpoint. Bands are mutually
// exclusive; the 0-100 and 100-500 boundaries are both inclusive, so a note
// priced exactly 100 matches either band. That overlap matches the original
// behavior and is kept on purpose.
const (
	PriceRangeFree = "free"
	PriceRangeLow  = "0-100"
	PriceRangeMid  = "100-500"
	PriceRangeHigh = "500+"
)

// NoteFilter carries the caller-supplied search criteria. String fields are
// raw query parameters: empty means "no filter", and non-numeric values for
// numeric columns surface as a query error rather than being silently dropped.
type NoteFilter struct {
	Search     string
	SubjectID  string
	Semester   string
	Year       string
	PriceRange string
	PriceMin   string
	PriceMax   string
}

// NotePayload is the serialized form of a note in listing responses, with
// seller/subject names denormalized and per-viewer annotation applied
type NotePayload struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Semester    int       `json:"semester"`
	Year        int       `json:"year"`
	Tags        string    `json:"tags"`
	ContactInfo string    `json:"contact_info"`
	Views       int       `json:"views"`
	Downloads   int       `json:"downloads"`
	IsFree      bool      `json:"is_free"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	SellerName  string    `json:"seller_name"`
	SellerPhone string    `json:"seller_phone"`
	SubjectName string    `json:"subject_name"`
	SubjectCode string    `json:"subject_code"`
	InWishlist  bool      `json:"in_wishlist"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int64     `json:"review_count"`
	FileURL     string    `json:"file_url,omitempty"`
}

// NotePage is one page of listing results
type NotePage struct {
	Results     []NotePayload `json:"results"`
	Count       int64         `json:"count"`
	Next        *string       `json:"next"`
	Previous    *string       `json:"previous"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
}

// NoteQueryService composes search predicates over the catalog and annotates
// results with per-viewer state
type NoteQueryService struct {
	db *gorm.DB
}

// NewNoteQueryService creates a NoteQueryService backed by the given database
func NewNoteQueryService(db *gorm.DB) *NoteQueryService {
	return &NoteQueryService{db: db}
}

// List returns one page of approved notes matching the filter, annotated for
// the viewer (viewerID 0 means anonymous). An out-of-range page yields an
// empty slice, not an error.
func (s *NoteQueryService) List(filter NoteFilter, page int, viewerID uint) (*NotePage, error) {
	if page < 1 {
		page = 1
	}

	query, err := s.buildQuery(filter)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	var notes []models.Note
	offset := (page - 1) * PageSize
	if err := query.
		Preload("Seller").
		Preload("Subject").
		Order("notes.created_at DESC").
		Offset(offset).
		Limit(PageSize).
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}

	results, err := s.Annotate(notes, viewerID)
	if err != nil {
		return nil, err
	}

	pageResult := &NotePage{
		Results:     results,
		Count:       count,
		CurrentPage: page,
		TotalPages:  int((count + PageSize - 1) / PageSize),
	}
	if int64(offset+PageSize) < count {
		next := fmt.Sprintf("/api/v1/notes?page=%d", page+1)
		pageResult.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("/api/v1/notes?page=%d", page-1)
		pageResult.Previous = &previous
	}

	return pageResult, nil
}

// Search returns all approved notes matching the filter without pagination
func (s *NoteQueryService) Search(filter NoteFilter, viewerID uint) ([]NotePayload, error) {
	query, err := s.buildQuery(filter)
	if err != nil {
		return nil, err
	}

	var notes []models.Note
	if err := query.
		Preload("Seller").
		Preload("Subject").
		Order("notes.created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	return s.Annotate(notes, viewerID)
}

// TopNotes returns the approved notes with at least one review, ranked by
// average rating descending with view count breaking ties
func (s *NoteQueryService) TopNotes(limit int, viewerID uint) ([]NotePayload, error) {
	type ratedNote struct {
		NoteID      uuid.UUID
		AvgRating   float64
		ReviewCount int64
	}

	var ranked []ratedNote
	if err := s.db.Table("reviews").
		Select("reviews.note_id, AVG(reviews.rating) AS avg_rating, COUNT(reviews.id) AS review_count").
		Joins("JOIN notes ON notes.id = reviews.note_id").
		Where("notes.is_approved = ?", true).
		Where("reviews.deleted_at IS NULL").
		Where("notes.deleted_at IS NULL").
		Group("reviews.note_id, notes.views").
		Order("avg_rating DESC, notes.views DESC").
		Limit(limit).
		Scan(&ranked).Error; err != nil {
		return nil, fmt.Errorf("failed to rank notes: %w", err)
	}

	if len(ranked) == 0 {
		return []NotePayload{}, nil
	}

	ids := make([]uuid.UUID, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.NoteID)
	}

	var notes []models.Note
	if err := s.db.
		Preload("Seller").
		Preload("Subject").
		Where("id IN ?", ids).
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to load top notes: %w", err)
	}

	// Restore ranking order, which the IN query does not preserve
	byID := make(map[uuid.UUID]models.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	ordered := make([]models.Note, 0, len(ranked))
	for _, r := range ranked {
		if n, ok := byID[r.NoteID]; ok {
			ordered = append(ordered, n)
		}
	}

	return s.Annotate(ordered, viewerID)
}

// buildQuery composes the filter predicate set over approved notes
func (s *NoteQueryService) buildQuery(filter NoteFilter) (*gorm.DB, error) {
	query := s.db.Model(&models.Note{}).Where("notes.is_approved = ?", true)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN subjects ON subjects.id = notes.subject_id").
			Where(
				"LOWER(notes.title) LIKE LOWER(?) OR LOWER(notes.description) LIKE LOWER(?) OR LOWER(subjects.name) LIKE LOWER(?) OR LOWER(notes.tags) LIKE LOWER(?)",
				pattern, pattern, pattern, pattern,
			)
	}

	if filter.SubjectID != "" {
		query = query.Where("notes.subject_id = ?", filter.SubjectID)
	}

	if filter.Semester != "" {
		query = query.Where("notes.semester = ?", filter.Semester)
	}

	if filter.Year != "" {
		query = query.Where("notes.year = ?", filter.Year)
	}

	switch filter.PriceRange {
	case "":
		// no band filter
	case PriceRangeFree:
		query = query.Where("notes.is_free = ?", true)
	case PriceRangeLow:
		query = query.Where("notes.price >= ? AND notes.price <= ? AND notes.is_free = ?", 0, 100, false)
	case PriceRangeMid:
		query = query.Where("notes.price >= ? AND notes.price <= ? AND notes.is_free = ?", 100, 500, false)
	case PriceRangeHigh:
		query = query.Where("notes.price >= ? AND notes.is_free = ?", 500, false)
	default:
		// unknown band values fall through unfiltered, as the original did
	}

	if filter.PriceMin != "" {
		minPrice, err := strconv.ParseFloat(filter.PriceMin, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price_min %q: %w", filter.PriceMin, err)
		}
		query = query.Where("notes.price >= ?", minPrice)
	}

	if filter.PriceMax != "" {
		maxPrice, err := strconv.ParseFloat(filter.PriceMax, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price_max %q: %w", filter.PriceMax, err)
		}
		query = query.Where("notes.price <= ?", maxPrice)
	}

	return query, nil
}

// Annotate serializes notes and decorates them with wishlist membership for
// the viewer plus review aggregates. Both decorations are batched: one
// wishlist query and one grouped review query per result set, regardless of
// its size.
func (s *NoteQueryService) Annotate(notes []models.Note, viewerID uint) ([]NotePayload, error) {
	results := make([]NotePayload, 0, len(notes))
	if len(notes) == 0 {
		return results, nil
	}

	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}

	inWishlist := make(map[uuid.UUID]bool)
	if viewerID != 0 {
		var wishlisted []uuid.UUID
		if err := s.db.Model(&models.WishlistItem{}).
			Where("user_id = ? AND note_id IN ?", viewerID, ids).
			Pluck("note_id", &wishlisted).Error; err != nil {
			return nil, fmt.Errorf("failed to load wishlist state: %w", err)
		}
		for _, id := range wishlisted {
			inWishlist[id] = true
		}
	}

	type reviewAggregate struct {
		NoteID      uuid.UUID
		AvgRating   float64
		ReviewCount int64
	}
	var aggregates []reviewAggregate
	if err := s.db.Model(&models.Review{}).
		Select("note_id, AVG(rating) AS avg_rating, COUNT(id) AS review_count").
		Where("note_id IN ?", ids).
		Group("note_id").
		Scan(&aggregates).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	ratings := make(map[uuid.UUID]reviewAggregate, len(aggregates))
	for _, a := range aggregates {
		ratings[a.NoteID] = a
	}

	for _, n := range notes {
		payload := NotePayload{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Price:       n.Price,
			Semester:    n.Semester,
			Year:        n.Year,
			Tags:        n.Tags,
			ContactInfo: n.ContactInfo,
			Views:       n.Views,
			Downloads:   n.Downloads,
			IsFree:      n.IsFree,
			IsApproved:  n.IsApproved,
			CreatedAt:   n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:   n.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			SellerName:  n.Seller.Name,
			SellerPhone: n.Seller.Phone,
			SubjectName: n.Subject.Name,
			SubjectCode: n.Subject.Code,
			InWishlist:  inWishlist[n.ID],
		}

		if agg, ok := ratings[n.ID]; ok {
			payload.AvgRating = RoundRating(agg.AvgRating)
			payload.ReviewCount = agg.ReviewCount
		}

		if n.FileS3Key != nil {
			if s3 := GetS3Service(); s3 != nil {
				if url, err := s3.GetPresignedURL(*n.FileS3Key); err == nil {
					payload.FileURL = url
				}
			}
		}

		results = append(results, payload)
	}

	return results, nil
}

// RoundRating rounds an average rating to two decimal places
func RoundRating(rating float64) float64 {
	return math.Round(rating*100) / 100
}
