// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/review"
	"github.com/coursescope/coursescope/pkg/pagination"
)

// # Records

// userRecord is an account row.
type userRecord struct {
	ID           string
	Email        string
	Name         string
	Program      string
	Year         int
	PasswordHash string
}

// courseStats aggregates review scores for one course. Search sorts on the
// averages; the rating average is also denormalized onto the course itself.
type courseStats struct {
	ratingSum     int
	difficultySum int
	workloadSum   int
	count         int
}

func (stats *courseStats) average(sum int) float64 {
	if stats.count == 0 {
		return 0
	}
	// One decimal, matching what the catalog displays.
	return math.Round(float64(sum)/float64(stats.count)*10) / 10
}

// # Store

// Store is the in-memory dataset behind the mock API.
//
// # Concurrency
//
// All access goes through one mutex. Good enough for a development fixture;
// this is not a production datastore.
type Store struct {
	mu sync.Mutex

	users  map[string]*userRecord // keyed by user ID
	emails map[string]string      // folded email -> user ID

	courses     []course.Course
	courseIndex map[string]int // course ID -> position in courses

	reviews map[string][]review.Review // keyed by course ID
	stats   map[string]*courseStats

	// now is swappable so tests can move the clock.
	now func() time.Time
}

// NewStore creates an empty [Store] and loads the seeded course catalog.
func NewStore() *Store {
	store := &Store{
		users:       make(map[string]*userRecord),
		emails:      make(map[string]string),
		courseIndex: make(map[string]int),
		reviews:     make(map[string][]review.Review),
		stats:       make(map[string]*courseStats),
		now:         time.Now,
	}
	store.seedCourses()
	return store
}

// fold lower-cases with full Unicode case folding, so lookups and search are
// case-insensitive beyond ASCII.
func fold(value string) string {
	return cases.Fold().String(value)
}

// # Accounts

// RegisterUser creates an account. The email must be unused.
func (store *Store) RegisterUser(email, name, program string, year int, password string) (userRecord, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return userRecord{}, apperr.Internal(err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	foldedEmail := fold(email)
	if _, exists := store.emails[foldedEmail]; exists {
		return userRecord{}, apperr.Conflict("An account with this email already exists")
	}

	user := &userRecord{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Program:      program,
		Year:         year,
		PasswordHash: passwordHash,
	}
	store.users[user.ID] = user
	store.emails[foldedEmail] = user.ID

	return *user, nil
}

// Authenticate verifies credentials and returns the matching account.
func (store *Store) Authenticate(email, password string) (userRecord, error) {
	store.mu.Lock()
	userID, found := store.emails[fold(email)]
	var user userRecord
	if found {
		user = *store.users[userID]
	}
	store.mu.Unlock()

	// bcrypt comparison happens outside the lock; it is deliberately slow.
	if !found || !CheckPasswordHash(password, user.PasswordHash) {
		return userRecord{}, apperr.Unauthorized("Invalid email or password")
	}
	return user, nil
}

// GetUser returns the account with the given ID.
func (store *Store) GetUser(userID string) (userRecord, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, found := store.users[userID]
	if !found {
		return userRecord{}, false
	}
	return *user, true
}

// DeleteUser removes the account and every review it wrote, recomputing the
// affected course averages.
func (store *Store) DeleteUser(userID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, found := store.users[userID]
	if !found {
		return apperr.NotFound("Account")
	}

	delete(store.emails, fold(user.Email))
	delete(store.users, userID)

	for courseID, courseReviews := range store.reviews {
		kept := courseReviews[:0]
		removed := false
		for _, r := range courseReviews {
			if r.WrittenBy.ID == userID {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		if removed {
			store.reviews[courseID] = kept
			store.recomputeLocked(courseID)
		}
	}
	return nil
}

// # Course Catalog

// GetCourse returns one catalog entry.
func (store *Store) GetCourse(courseID string) (course.Course, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index, found := store.courseIndex[courseID]
	if !found {
		return course.Course{}, false
	}
	return store.courses[index], true
}

// SearchCourses filters, sorts, and pages the catalog.
//
// The query matches course names and department codes case-insensitively; a
// blank query matches everything. Pages at or past the end come back as valid
// empty pages.
func (store *Store) SearchCourses(params course.SearchParams) pagination.Page[course.Course] {
	store.mu.Lock()
	defer store.mu.Unlock()

	query := fold(strings.TrimSpace(params.Query))

	matched := make([]course.Course, 0, len(store.courses))
	for _, entry := range store.courses {
		if params.DepartmentCode != "" && params.DepartmentCode != course.AllDepartments &&
			entry.Department.DepartmentCode != params.DepartmentCode {
			continue
		}
		if query != "" &&
			!strings.Contains(fold(entry.Name), query) &&
			!strings.Contains(fold(entry.Department.DepartmentCode), query) {
			continue
		}
		matched = append(matched, entry)
	}

	store.sortCoursesLocked(matched, params.SortBy)
	return buildPage(matched, params.Page, params.Size)
}

// sortCoursesLocked orders matched in place. Course number is the stable
// tiebreak so pagination never shuffles between requests.
func (store *Store) sortCoursesLocked(matched []course.Course, sortBy string) {
	field, descending := splitSortKey(sortBy)

	metric := func(entry course.Course) float64 {
		stats := store.stats[entry.ID]
		switch field {
		case "rating":
			return entry.AverageRating
		case "difficulty":
			if stats == nil {
				return 0
			}
			return stats.average(stats.difficultySum)
		case "workload":
			if stats == nil {
				return 0
			}
			return stats.average(stats.workloadSum)
		default: // courseNumber
			return float64(entry.CourseNumber)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		left, right := metric(matched[i]), metric(matched[j])
		if left == right {
			return matched[i].CourseNumber < matched[j].CourseNumber
		}
		if descending {
			return left > right
		}
		return left < right
	})
}

// # Reviews

// ReviewsForCourse returns a course's reviews, server-sorted. The second
// return value reports whether the course exists.
func (store *Store) ReviewsForCourse(courseID, sortBy string) ([]review.Review, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, found := store.courseIndex[courseID]; !found {
		return nil, false
	}

	listed := make([]review.Review, len(store.reviews[courseID]))
	copy(listed, store.reviews[courseID])
	sortReviews(listed, sortBy)

	for i := range listed {
		listed[i] = redacted(listed[i])
	}
	return listed, true
}

// ReviewsByUser returns every review the user wrote, newest first.
func (store *Store) ReviewsByUser(userID string) []review.Review {
	store.mu.Lock()
	defer store.mu.Unlock()

	var mine []review.Review
	for _, courseReviews := range store.reviews {
		for _, r := range courseReviews {
			if r.WrittenBy.ID == userID {
				mine = append(mine, r)
			}
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		return mine[i].DatePosted.After(mine[j].DatePosted)
	})
	return mine
}

// HasReviewed reports whether the user already reviewed the course.
func (store *Store) HasReviewed(userID, courseID string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, r := range store.reviews[courseID] {
		if r.WrittenBy.ID == userID {
			return true
		}
	}
	return false
}

// CreateReview posts a new review. One review per user per course.
func (store *Store) CreateReview(userID, courseID string, draft review.Draft) (review.Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, found := store.courseIndex[courseID]; !found {
		return review.Review{}, apperr.NotFound("Course")
	}
	user, found := store.users[userID]
	if !found {
		return review.Review{}, apperr.Unauthorized("Account no longer exists")
	}
	for _, r := range store.reviews[courseID] {
		if r.WrittenBy.ID == userID {
			return review.Review{}, apperr.Conflict("You have already reviewed this course")
		}
	}

	created := review.Review{
		ID:         uuid.NewString(),
		Content:    draft.Content,
		Rating:     draft.Rating,
		Difficulty: draft.Difficulty,
		Workload:   draft.Workload,
		DatePosted: store.now().UTC(),
		WrittenBy:  authorOf(user),
		CourseID:   courseID,
		Anonymous:  draft.Anonymous,
	}
	store.reviews[courseID] = append(store.reviews[courseID], created)
	store.recomputeLocked(courseID)

	return redacted(created), nil
}

// ReplaceReview fully replaces a review's scored fields and content.
//
// Only the author may edit, and only while the edit window is open; both
// violations answer Forbidden.
func (store *Store) ReplaceReview(userID, courseID, reviewID string, draft review.Draft) (review.Review, error) {
	return store.mutateReview(userID, courseID, reviewID, func(r *review.Review) {
		r.Content = draft.Content
		r.Rating = draft.Rating
		r.Difficulty = draft.Difficulty
		r.Workload = draft.Workload
		r.Anonymous = draft.Anonymous
	})
}

// PatchReview applies only the provided fields.
func (store *Store) PatchReview(userID, courseID, reviewID string, patch review.Patch) (review.Review, error) {
	return store.mutateReview(userID, courseID, reviewID, func(r *review.Review) {
		if patch.Content != nil {
			r.Content = *patch.Content
		}
		if patch.Rating != nil {
			r.Rating = *patch.Rating
		}
		if patch.Difficulty != nil {
			r.Difficulty = *patch.Difficulty
		}
		if patch.Workload != nil {
			r.Workload = *patch.Workload
		}
		if patch.Anonymous != nil {
			r.Anonymous = *patch.Anonymous
		}
	})
}

func (store *Store) mutateReview(userID, courseID, reviewID string, apply func(*review.Review)) (review.Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	courseReviews := store.reviews[courseID]
	for i := range courseReviews {
		r := &courseReviews[i]
		if r.ID != reviewID {
			continue
		}
		if r.WrittenBy.ID != userID {
			return review.Review{}, apperr.Forbidden("Only the author may edit this review")
		}
		if !review.WithinEditWindow(*r, store.now()) {
			return review.Review{}, apperr.Forbidden("The edit window for this review has closed")
		}

		apply(r)
		editedAt := store.now().UTC()
		r.LastEdited = &editedAt
		store.recomputeLocked(courseID)
		return redacted(*r), nil
	}
	return review.Review{}, apperr.NotFound("Review")
}

// DeleteReview removes a review. Author only; no time limit.
func (store *Store) DeleteReview(userID, courseID, reviewID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	courseReviews := store.reviews[courseID]
	for i, r := range courseReviews {
		if r.ID != reviewID {
			continue
		}
		if r.WrittenBy.ID != userID {
			return apperr.Forbidden("Only the author may delete this review")
		}
		store.reviews[courseID] = append(courseReviews[:i], courseReviews[i+1:]...)
		store.recomputeLocked(courseID)
		return nil
	}
	return apperr.NotFound("Review")
}

// recomputeLocked refreshes a course's aggregates after any review change.
func (store *Store) recomputeLocked(courseID string) {
	stats := &courseStats{}
	for _, r := range store.reviews[courseID] {
		stats.ratingSum += r.Rating
		stats.difficultySum += r.Difficulty
		stats.workloadSum += r.Workload
		stats.count++
	}
	store.stats[courseID] = stats

	if index, found := store.courseIndex[courseID]; found {
		store.courses[index].AverageRating = stats.average(stats.ratingSum)
	}
}

// # Helpers

func authorOf(user *userRecord) review.Author {
	email := user.Email
	return review.Author{
		ID:      user.ID,
		Email:   &email,
		Name:    user.Name,
		Program: user.Program,
		Year:    user.Year,
	}
}

// redacted blanks the author profile of anonymous reviews. The author ID is
// kept so ownership checks (edit, delete) still work.
func redacted(r review.Review) review.Review {
	if r.Anonymous {
		r.WrittenBy = review.Author{ID: r.WrittenBy.ID, Name: "Anonymous"}
	}
	return r
}

// sortReviews orders by the {field}_{asc|desc} key; date posted (newest
// first) is the tiebreak.
func sortReviews(listed []review.Review, sortBy string) {
	field, descending := splitSortKey(sortBy)

	metric := func(r review.Review) int {
		switch field {
		case "difficulty":
			return r.Difficulty
		case "workload":
			return r.Workload
		default: // rating
			return r.Rating
		}
	}

	sort.SliceStable(listed, func(i, j int) bool {
		left, right := metric(listed[i]), metric(listed[j])
		if left == right {
			return listed[i].DatePosted.After(listed[j].DatePosted)
		}
		if descending {
			return left > right
		}
		return left < right
	})
}

func splitSortKey(sortBy string) (field string, descending bool) {
	field, direction, found := strings.Cut(sortBy, "_")
	if !found {
		return field, false
	}
	return field, direction == "desc"
}

// buildPage slices matched into the requested zero-based page.
func buildPage(matched []course.Course, pageNumber, size int) pagination.Page[course.Course] {
	if size <= 0 {
		size = course.DefaultPageSize
	}
	if pageNumber < 0 {
		pageNumber = 0
	}

	total := len(matched)
	totalPages := (total + size - 1) / size

	start := pageNumber * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := make([]course.Course, end-start)
	copy(content, matched[start:end])

	return pagination.Page[course.Course]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             size,
		Number:           pageNumber,
		NumberOfElements: len(content),
		First:            pageNumber == 0,
		Last:             pageNumber >= totalPages-1,
		Empty:            len(content) == 0,
	}
}
