package domain

import (
	"sort"
)

// FirstFilmDate самая ранняя допустимая дата релиза (первый киносеанс).
var FirstFilmDate = NewDate(1895, 12, 28)

// MaxDescriptionLength максимальная длина описания в символах.
const MaxDescriptionLength = 200

// Mpa возрастной рейтинг MPA.
type Mpa struct {
	ID   int64  `json:"id" db:"rating_id"`
	Name string `json:"name" db:"name"`
}

// Genre жанр фильма.
type Genre struct {
	ID   int64  `json:"id" db:"genre_id"`
	Name string `json:"name" db:"name"`
}

// Film основная модель фильма.
// Genres и LikesByUsers хранилище заполняет при чтении из связей с жанрами и лайков.
type Film struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ReleaseDate  Date    `json:"releaseDate"`
	Duration     int     `json:"duration"`
	Mpa          Mpa     `json:"mpa"`
	Genres       []Genre `json:"genres"`
	LikesByUsers []int64 `json:"likesByUsers"`
}

func (f *Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// Clone возвращает глубокую копию.
func (f *Film) Clone() *Film {
	c := *f
	c.Genres = append(make([]Genre, 0, len(f.Genres)), f.Genres...)
	c.LikesByUsers = append(make([]int64, 0, len(f.LikesByUsers)), f.LikesByUsers...)
	return &c
}

// NormalizeGenres сортирует жанры по id и убирает дубли.
func NormalizeGenres(genres []Genre) []Genre {
	out := make([]Genre, 0, len(genres))
	seen := make(map[int64]struct{}, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MpaRef ссылка на рейтинг в запросах, name игнорируется.
type MpaRef struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"name,omitempty"`
}

// GenreRef ссылка на жанр в запросах.
type GenreRef struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"name,omitempty"`
}

// NewFilmRequest тело POST /films
type NewFilmRequest struct {
	Name        string     `json:"name" validate:"notblank"`
	Description string     `json:"description" validate:"max=200"`
	ReleaseDate Date       `json:"releaseDate" validate:"cinemadate"`
	Duration    int        `json:"duration" validate:"gt=0"`
	Mpa         *MpaRef    `json:"mpa" validate:"required"`
	Genres      []GenreRef `json:"genres" validate:"omitempty,dive"`
}

// ToFilm собирает еще не сохраненный фильм.
func (r NewFilmRequest) ToFilm() *Film {
	film := &Film{
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
		Genres:      genresFromRefs(r.Genres),
	}
	if r.Mpa != nil {
		film.Mpa = Mpa{ID: r.Mpa.ID}
	}
	return film
}

// UpdateFilmRequest тело PUT /films. Работает как патч: nil поля не меняются.
// Genres == nil оставляет жанры, пустой список их очищает.
type UpdateFilmRequest struct {
	ID          int64      `json:"id" validate:"gt=0"`
	Name        *string    `json:"name" validate:"omitempty,notblank"`
	Description *string    `json:"description" validate:"omitempty,max=200"`
	ReleaseDate *Date      `json:"releaseDate" validate:"omitempty,cinemadate"`
	Duration    *int       `json:"duration" validate:"omitempty,gt=0"`
	Mpa         *MpaRef    `json:"mpa"`
	Genres      []GenreRef `json:"genres" validate:"omitempty,dive"`
}

// Apply накладывает патч на фильм.
func (r UpdateFilmRequest) Apply(film *Film) {
	if r.Name != nil {
		film.Name = *r.Name
	}
	if r.Description != nil {
		film.Description = *r.Description
	}
	if r.ReleaseDate != nil {
		film.ReleaseDate = *r.ReleaseDate
	}
	if r.Duration != nil {
		film.Duration = *r.Duration
	}
	if r.Mpa != nil {
		film.Mpa = Mpa{ID: r.Mpa.ID}
	}
	if r.Genres != nil {
		film.Genres = genresFromRefs(r.Genres)
	}
}

// ReferencedGenreIDs id жанров из запроса без повторов.
func (r UpdateFilmRequest) ReferencedGenreIDs() []int64 { return refIDs(r.Genres) }

func (r NewFilmRequest) ReferencedGenreIDs() []int64 { return refIDs(r.Genres) }

func genresFromRefs(refs []GenreRef) []Genre {
	genres := make([]Genre, 0, len(refs))
	for _, ref := range refs {
		genres = append(genres, Genre{ID: ref.ID})
	}
	return NormalizeGenres(genres)
}

func refIDs(refs []GenreRef) []int64 {
	genres := genresFromRefs(refs)
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
