package handler

import (
	"errors"
	"net/http"
	"time"

	"vivah/backend/internal/database"
	"vivah/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

// ProfileInput defines the editable profile fields. DOB uses YYYY-MM-DD.
type ProfileInput struct {
	Gender        string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	DOB           string `json:"dob" example:"1994-06-15"`
	HeightCM      float64 `json:"height_cm"`
	WeightKG      float64 `json:"weight_kg"`
	MaritalStatus string `json:"marital_status"`
	Religion      string `json:"religion"`
	Caste         string `json:"caste"`
	MotherTongue  string `json:"mother_tongue"`

	Education    string `json:"education"`
	Occupation   string `json:"occupation"`
	AnnualIncome string `json:"annual_income"`
	CompanyName  string `json:"company_name"`
	WorkingCity  string `json:"working_city"`

	PhoneNo string `json:"phone_no"`
	Address string `json:"address"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`

	Diet     string `json:"diet"`
	Smoking  string `json:"smoking"`
	Drinking string `json:"drinking"`
	Hobbies  string `json:"hobbies"`

	FatherName       string `json:"father_name"`
	MotherName       string `json:"mother_name"`
	FatherOccupation string `json:"father_occupation"`
	MotherOccupation string `json:"mother_occupation"`
	Sisters          int    `json:"sisters"`
	Brothers         int    `json:"brothers"`
	FamilyType       string `json:"family_type"`

	AboutMe            string `json:"about_me"`
	PartnerPreferences string `json:"partner_preferences"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GalleryImageResponse is one photo of a profile gallery.
type GalleryImageResponse struct {
	UID      uuid.UUID `json:"uid"`
	ImageURL string    `json:"image_url"`
}

// ProfileResponse is the profile card shown to members.
type ProfileResponse struct {
	UID      uuid.UUID `json:"uid"`
	Identity string    `json:"identity" example:"VIVAH12345"`
	Name     string    `json:"name"`

	Gender        string `json:"gender"`
	Age           int    `json:"age" example:"29"`
	DOB           string `json:"dob,omitempty"`
	HeightCM      float64 `json:"height_cm,omitempty"`
	WeightKG      float64 `json:"weight_kg,omitempty"`
	MaritalStatus string `json:"marital_status"`
	Religion      string `json:"religion"`
	Caste         string `json:"caste"`
	MotherTongue  string `json:"mother_tongue"`

	Education    string `json:"education"`
	Occupation   string `json:"occupation"`
	AnnualIncome string `json:"annual_income"`
	CompanyName  string `json:"company_name"`
	WorkingCity  string `json:"working_city"`

	PhoneNo string `json:"phone_no,omitempty"`
	Address string `json:"address,omitempty"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`

	Diet     string `json:"diet"`
	Smoking  string `json:"smoking"`
	Drinking string `json:"drinking"`
	Hobbies  string `json:"hobbies"`

	FatherName       string `json:"father_name"`
	MotherName       string `json:"mother_name"`
	FatherOccupation string `json:"father_occupation"`
	MotherOccupation string `json:"mother_occupation"`
	Sisters          int    `json:"sisters"`
	Brothers         int    `json:"brothers"`
	FamilyType       string `json:"family_type"`

	AboutMe            string `json:"about_me"`
	PartnerPreferences string `json:"partner_preferences"`

	ImageURL         string                 `json:"image_url"`
	IdentityProofURL string                 `json:"identity_proof_url,omitempty"`
	Gallery          []GalleryImageResponse `json:"gallery"`

	IsComplete bool `json:"is_complete"`
	IsVerified bool `json:"is_verified"`
}

// endregion

// buildProfileResponse renders a profile card. Age is derived from DOB at
// call time; ownView additionally exposes contact fields and the proof URL.
func buildProfileResponse(p *models.Profile, account *models.Account, ownView bool) ProfileResponse {
	resp := ProfileResponse{
		UID:      p.UID,
		Identity: p.Identity,
		Name:     account.FullName(),

		Gender:        string(p.Gender),
		Age:           p.Age(time.Now()),
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG,
		MaritalStatus: p.MaritalStatus,
		Religion:      p.Religion,
		Caste:         p.Caste,
		MotherTongue:  p.MotherTongue,

		Education:    p.Education,
		Occupation:   p.Occupation,
		AnnualIncome: p.AnnualIncome,
		CompanyName:  p.CompanyName,
		WorkingCity:  p.WorkingCity,

		Country: p.Country,
		State:   p.State,
		City:    p.City,

		Diet:     p.Diet,
		Smoking:  p.Smoking,
		Drinking: p.Drinking,
		Hobbies:  p.Hobbies,

		FatherName:       p.FatherName,
		MotherName:       p.MotherName,
		FatherOccupation: p.FatherOccupation,
		MotherOccupation: p.MotherOccupation,
		Sisters:          p.Sisters,
		Brothers:         p.Brothers,
		FamilyType:       p.FamilyType,

		AboutMe:            p.AboutMe,
		PartnerPreferences: p.PartnerPreferences,

		ImageURL:   p.ImageURL,
		IsComplete: p.IsComplete(),
		IsVerified: account.IsVerified,
	}
	for _, g := range p.Gallery {
		resp.Gallery = append(resp.Gallery, GalleryImageResponse{UID: g.UID, ImageURL: g.ImageURL})
	}
	if ownView {
		resp.PhoneNo = p.PhoneNo
		resp.Address = p.Address
		resp.IdentityProofURL = p.IdentityProofURL
		if p.DOB != nil {
			resp.DOB = p.DOB.Format("2006-01-02")
		}
	}
	return resp
}

// loadOwnProfile fetches the caller's account and profile, creating the
// profile on first access.
func loadOwnProfile(c *gin.Context) (*models.Account, *models.Profile, bool) {
	accountID, exists := c.Get("accountID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, nil, false
	}

	var account models.Account
	if err := database.DB.First(&account, accountID.(uint)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authenticated account not found"})
		return nil, nil, false
	}

	var profile models.Profile
	err := database.DB.Preload("Gallery").Where("account_id = ?", account.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{AccountID: account.ID}
		if err := database.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return nil, nil, false
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return nil, nil, false
	}
	return &account, &profile, true
}

// GetMyProfile godoc
// @Summary      Get own profile
// @Description  Returns the caller's profile, creating an empty one on first access.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /profiles/me [get]
func GetMyProfile(c *gin.Context) {
	account, profile, ok := loadOwnProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildProfileResponse(profile, account, true))
}

// UpdateMyProfile godoc
// @Summary      Update own profile
// @Description  Rewrites the editable profile fields. Only the owner may edit a profile.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileInput true "Profile fields"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /profiles/me [put]
func UpdateMyProfile(c *gin.Context) {
	account, profile, ok := loadOwnProfile(c)
	if !ok {
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.DOB != "" {
		dob, err := time.Parse("2006-01-02", input.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be YYYY-MM-DD"})
			return
		}
		if !dob.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be in the past"})
			return
		}
		profile.DOB = &dob
	}
	if input.Gender != "" {
		profile.Gender = models.Gender(input.Gender)
	}
	profile.HeightCM = input.HeightCM
	profile.WeightKG = input.WeightKG
	if input.MaritalStatus != "" {
		profile.MaritalStatus = input.MaritalStatus
	}
	profile.Religion = input.Religion
	profile.Caste = input.Caste
	profile.MotherTongue = input.MotherTongue
	profile.Education = input.Education
	profile.Occupation = input.Occupation
	profile.AnnualIncome = input.AnnualIncome
	profile.CompanyName = input.CompanyName
	profile.WorkingCity = input.WorkingCity
	profile.PhoneNo = input.PhoneNo
	profile.Address = input.Address
	profile.Country = input.Country
	profile.State = input.State
	profile.City = input.City
	profile.Diet = input.Diet
	profile.Smoking = input.Smoking
	profile.Drinking = input.Drinking
	profile.Hobbies = input.Hobbies
	profile.FatherName = input.FatherName
	profile.MotherName = input.MotherName
	profile.FatherOccupation = input.FatherOccupation
	profile.MotherOccupation = input.MotherOccupation
	profile.Sisters = input.Sisters
	profile.Brothers = input.Brothers
	profile.FamilyType = input.FamilyType
	profile.AboutMe = input.AboutMe
	profile.PartnerPreferences = input.PartnerPreferences

	if err := database.DB.Save(profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	if input.FirstName != "" || input.LastName != "" {
		account.FirstName = input.FirstName
		account.LastName = input.LastName
		if err := database.DB.Save(account).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save account"})
			return
		}
	}

	c.JSON(http.StatusOK, buildProfileResponse(profile, account, true))
}

// GetProfileByUID godoc
// @Summary      View a member profile
// @Description  Returns the profile card for a verified member. Requires a complete, verified caller.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Profile UID"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /members/{uid} [get]
func GetProfileByUID(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile UID"})
		return
	}

	var profile models.Profile
	err = database.DB.
		Preload("Account").
		Preload("Gallery").
		Joins("JOIN accounts ON accounts.id = profiles.account_id AND accounts.deleted_at IS NULL").
		Where("profiles.uid = ? AND accounts.is_verified = ?", uid, true).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, buildProfileResponse(&profile, &profile.Account, false))
}

// FilterOptions godoc
// @Summary      Search dropdown values
// @Description  Returns the distinct countries, states, cities and castes present on profiles.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]string
// @Failure      500  {object}  ErrorResponse
// @Router       /matches/filters [get]
func FilterOptions(c *gin.Context) {
	options := gin.H{}
	for _, column := range []string{"country", "state", "city", "caste"} {
		values, err := deps.Match.DistinctValues(column)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load filter options"})
			return
		}
		options[column] = values
	}
	c.JSON(http.StatusOK, options)
}

// UploadProfilePhoto godoc
// @Summary      Upload the primary profile photo
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Photo"
// @Success      200  {object}  map[string]string "{"image_url": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /profiles/me/photo [post]
func UploadProfilePhoto(c *gin.Context) {
	_, profile, ok := loadOwnProfile(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An 'image' file is required"})
		return
	}
	defer file.Close()

	url, err := deps.Blob.Upload(c.Request.Context(), file, "vivah/profiles", profile.UID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	if err := database.DB.Model(profile).Update("image_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// UploadIdentityProof godoc
// @Summary      Upload the identity proof document
// @Description  Completes the profile. The account still needs admin verification before matching.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        document formData file true "Identity document"
// @Success      200  {object}  map[string]string "{"identity_proof_url": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /profiles/me/identity-proof [post]
func UploadIdentityProof(c *gin.Context) {
	_, profile, ok := loadOwnProfile(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'document' file is required"})
		return
	}
	defer file.Close()

	url, err := deps.Blob.Upload(c.Request.Context(), file, "vivah/identity", profile.UID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	if err := database.DB.Model(profile).Update("identity_proof_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identity_proof_url": url})
}

// UploadGalleryImages godoc
// @Summary      Add gallery photos
// @Description  Accepts multiple photos under the 'images' field and appends them to the gallery.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        images formData file true "Photos (repeatable)"
// @Success      201  {array}   GalleryImageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /profiles/me/gallery [post]
func UploadGalleryImages(c *gin.Context) {
	_, profile, ok := loadOwnProfile(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one 'images' file is required"})
		return
	}

	var created []GalleryImageResponse
	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		image := models.GalleryImage{ProfileID: profile.ID, UID: uuid.New()}
		url, err := deps.Blob.Upload(c.Request.Context(), file, "vivah/gallery", image.UID.String())
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}

		image.ImageURL = url
		if err := database.DB.Create(&image).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save gallery image"})
			return
		}
		created = append(created, GalleryImageResponse{UID: image.UID, ImageURL: image.ImageURL})
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteGalleryImage godoc
// @Summary      Delete a gallery photo
// @Description  Removes one photo from the caller's own gallery.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Gallery image UID"
// @Success      200  {object}  map[string]string "{"message": "Image deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/me/gallery/{uid} [delete]
func DeleteGalleryImage(c *gin.Context) {
	_, profile, ok := loadOwnProfile(c)
	if !ok {
		return
	}

	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image UID"})
		return
	}

	// Ownership-filtered delete: a foreign image behaves like a missing one.
	result := database.DB.Where("uid = ? AND profile_id = ?", uid, profile.ID).Delete(&models.GalleryImage{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}
