package dto

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"bookinn/internal/domains/accommodation/model"
	"bookinn/shared"
	"bookinn/shared/constant"
	gDto "bookinn/shared/dto"
	"bookinn/shared/failure"
	gModel "bookinn/shared/model"
	"bookinn/shared/timezone"
)

type CreateAccommodationRequest struct {
	Name          string                `json:"name"           validate:"required,max=100"`
	Description   string                `json:"description"    validate:"omitempty,max=1000"`
	Location      string                `json:"location"       validate:"omitempty,max=200"`
	Price         float64               `json:"price"          validate:"required,gt=0"`
	GuestNumber   int                   `json:"guest_number"   validate:"required,min=1"`
	PetFriendly   bool                  `json:"pet_friendly"   validate:"omitempty"`
	CheckInTime   string                `json:"check_in_time"  validate:"omitempty"`
	CheckOutTime  string                `json:"check_out_time" validate:"omitempty"`
	AvailableFrom string                `json:"available_from" validate:"required"`
	AvailableTo   string                `json:"available_to"   validate:"required"`
	Image         *multipart.FileHeader `json:"image"          validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
}

func (c *CreateAccommodationRequest) ToModel(user, imageURL string) (model.Accommodation, error) {
	availableFrom, err := timezone.Parse(constant.DateOnlyFormat, c.AvailableFrom)
	if err != nil {
		return model.Accommodation{}, failure.BadRequestFromString("available_from must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	availableTo, err := timezone.Parse(constant.DateOnlyFormat, c.AvailableTo)
	if err != nil {
		return model.Accommodation{}, failure.BadRequestFromString("available_to must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	if availableFrom.After(availableTo) {
		return model.Accommodation{}, failure.BadRequestFromString("available_from must not be after available_to") //nolint:wrapcheck
	}

	return model.Accommodation{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Description:   c.Description,
		Location:      c.Location,
		Price:         c.Price,
		GuestNumber:   c.GuestNumber,
		PetFriendly:   c.PetFriendly,
		ImageURL:      imageURL,
		CheckInTime:   c.CheckInTime,
		CheckOutTime:  c.CheckOutTime,
		AvailableFrom: availableFrom,
		AvailableTo:   availableTo,
		ManagedBy:     user,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateAccommodationRequest struct {
	Name         string                `db:"name"           json:"name"           validate:"omitempty,max=100"`
	Description  string                `db:"description"    json:"description"    validate:"omitempty,max=1000"`
	Location     string                `db:"location"       json:"location"       validate:"omitempty,max=200"`
	Price        *float64              `db:"price"          json:"price"          validate:"omitempty,gt=0"`
	GuestNumber  *int                  `db:"guest_number"   json:"guest_number"   validate:"omitempty,min=1"`
	PetFriendly  *bool                 `db:"pet_friendly"   json:"pet_friendly"   validate:"omitempty"`
	CheckInTime  string                `db:"check_in_time"  json:"check_in_time"  validate:"omitempty"`
	CheckOutTime string                `db:"check_out_time" json:"check_out_time" validate:"omitempty"`
	Image        *multipart.FileHeader `json:"image"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile    multipart.File        `json:"-"`
}

type AccommodationResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	Price         float64 `json:"price"`
	GuestNumber   int     `json:"guest_number"`
	PetFriendly   bool    `json:"pet_friendly"`
	ImageURL      string  `json:"image_url"`
	CheckInTime   string  `json:"check_in_time"`
	CheckOutTime  string  `json:"check_out_time"`
	AvailableFrom string  `json:"available_from"`
	AvailableTo   string  `json:"available_to"`
	ManagedBy     string  `json:"managed_by"`
	gDto.Metadata
}

func (r *AccommodationResponse) FromModel(model model.Accommodation) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Location = model.Location
	r.Price = model.Price
	r.GuestNumber = model.GuestNumber
	r.PetFriendly = model.PetFriendly
	r.ImageURL = model.ImageURL
	r.CheckInTime = model.CheckInTime
	r.CheckOutTime = model.CheckOutTime
	r.AvailableFrom = model.AvailableFrom.Format(constant.DateOnlyFormat)
	r.AvailableTo = model.AvailableTo.Format(constant.DateOnlyFormat)
	r.ManagedBy = model.ManagedBy
	r.Metadata.FromModel(model.Metadata)
}

type GetAccommodationsResponse struct {
	Accommodations []AccommodationResponse `json:"accommodations"`
	TotalPage      int                     `json:"total_page"`
	TotalData      int                     `json:"total_data"`
}

func (r *GetAccommodationsResponse) FromModels(models []model.Accommodation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Accommodations = make([]AccommodationResponse, len(models))
	for i, mod := range models {
		r.Accommodations[i].FromModel(mod)
	}
}

// AccommodationFilter holds the optional search criteria for accommodation
// listings. Absent fields contribute no clause, so an empty filter matches
// every accommodation.
type AccommodationFilter struct {
	Name        string
	Description string
	Location    string
	MinPrice    *float64
	MaxPrice    *float64
	GuestNumber *int
	FromDate    *time.Time
	ToDate      *time.Time
}

// FromRequest reads the optional search criteria off the request query.
// Malformed numeric values are treated as absent; malformed dates are
// rejected so a typo never silently widens the search.
func (f *AccommodationFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.Name = query.Get(model.FieldName)
	f.Description = query.Get(model.FieldDescription)
	f.Location = query.Get(model.FieldLocation)

	if minPrice := query.Get(constant.RequestParamMinPrice); minPrice != "" {
		if value, err := shared.ConvertStringToFloat(minPrice); err == nil {
			f.MinPrice = &value
		}
	}

	if maxPrice := query.Get(constant.RequestParamMaxPrice); maxPrice != "" {
		if value, err := shared.ConvertStringToFloat(maxPrice); err == nil {
			f.MaxPrice = &value
		}
	}

	if guestNumber := query.Get(model.FieldGuestNumber); guestNumber != "" {
		if value, err := shared.ConvertStringToInt(guestNumber); err == nil {
			f.GuestNumber = &value
		}
	}

	if fromDate := query.Get(constant.RequestParamFromDate); fromDate != "" {
		value, err := timezone.Parse(constant.DateOnlyFormat, fromDate)
		if err != nil {
			return failure.BadRequestFromString("from_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		f.FromDate = &value
	}

	if toDate := query.Get(constant.RequestParamToDate); toDate != "" {
		value, err := timezone.Parse(constant.DateOnlyFormat, toDate)
		if err != nil {
			return failure.BadRequestFromString("to_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		f.ToDate = &value
	}

	return f.Validate()
}

// Validate rejects a search window whose from-date lies after its to-date.
func (f *AccommodationFilter) Validate() error {
	if f.FromDate != nil && f.ToDate != nil && f.FromDate.After(*f.ToDate) {
		return failure.BadRequestFromString("from_date must not be after to_date") //nolint:wrapcheck
	}

	return nil
}

// ToFilterGroup composes the present criteria into one AND group. Substring
// matches are case-insensitive; price bounds are inclusive. The availability
// window uses inclusive bounds: a stay window [from,to] matches when it
// intersects [available_from, available_to].
func (f *AccommodationFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if f.Name != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    f.Name,
			Table:    model.TableName,
		})
	}

	if f.Description != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldDescription,
			Operator: gDto.FilterOperatorLike,
			Value:    f.Description,
			Table:    model.TableName,
		})
	}

	if f.Location != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldLocation,
			Operator: gDto.FilterOperatorLike,
			Value:    f.Location,
			Table:    model.TableName,
		})
	}

	if f.MinPrice != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "min_price",
			Field:    model.FieldPrice,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    *f.MinPrice,
			Table:    model.TableName,
		})
	}

	if f.MaxPrice != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "max_price",
			Field:    model.FieldPrice,
			Operator: gDto.FilterOperatorLessEq,
			Value:    *f.MaxPrice,
			Table:    model.TableName,
		})
	}

	if f.GuestNumber != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldGuestNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    *f.GuestNumber,
			Table:    model.TableName,
		})
	}

	// Window bounds go to SQL as plain dates so the DATE columns compare by
	// calendar date regardless of the app timezone.
	if f.FromDate != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "window_from",
			Field:    model.FieldAvailableTo,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    f.FromDate.Format(constant.DateOnlyFormat),
			Table:    model.TableName,
		})
	}

	if f.ToDate != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "window_to",
			Field:    model.FieldAvailableFrom,
			Operator: gDto.FilterOperatorLessEq,
			Value:    f.ToDate.Format(constant.DateOnlyFormat),
			Table:    model.TableName,
		})
	}

	return group
}
