package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"villager-registry/internal/service"
)

// CharacterHandler mantiene dependencias para endpoints de personajes.
type CharacterHandler struct {
	logger     *zap.Logger
	characters *service.CharacterService
}

// NewCharacterHandler crea una instancia de CharacterHandler con dependencias necesarias.
func NewCharacterHandler(logger *zap.Logger, characters *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{
		logger:     logger,
		characters: characters,
	}
}

// rawValue acepta un string, numero o booleano JSON y guarda su texto,
// para que day y is_bachelor pasen por los mismos validadores que la CLI.
type rawValue string

func (v *rawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = rawValue(s)
		return nil
	}
	text := string(data)
	if text == "true" || text == "false" {
		*v = rawValue(text)
		return nil
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		*v = rawValue(text)
		return nil
	}
	return fmt.Errorf("expected string, number or boolean, got %s", text)
}

func (v *rawValue) ptr() *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

type addCharacterRequest struct {
	Name           rawValue `json:"name"`
	BirthdaySeason rawValue `json:"birthday_season"`
	BirthdayDay    rawValue `json:"birthday_day"`
	IsBachelor     rawValue `json:"is_bachelor"`
	BestGift       rawValue `json:"best_gift"`
}

type changeCharacterRequest struct {
	Name                 rawValue  `json:"name"`
	ChangeName           *rawValue `json:"change_name"`
	ChangeBirthdaySeason *rawValue `json:"change_birthday_season"`
	ChangeBirthdayDay    *rawValue `json:"change_birthday_day"`
	ChangeIsBachelor     *rawValue `json:"change_is_bachelor"`
	ChangeBestGift       *rawValue `json:"change_best_gift"`
}

// Root maneja GET /.
func (h *CharacterHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Server is up and running!"})
}

// ReadCharacter maneja GET /get/:argument ("all" o un nombre).
func (h *CharacterHandler) ReadCharacter(c *gin.Context) {
	token := strings.TrimSpace(c.Param("argument"))
	chars, err := h.characters.Lookup(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if token == service.LookupAll {
		c.JSON(http.StatusOK, gin.H{"characters": chars, "message": "Read all characters."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"character": chars[0], "message": "Read character successfully."})
}

// ReadAll maneja GET /get-all.
func (h *CharacterHandler) ReadAll(c *gin.Context) {
	chars, err := h.characters.ListCharacters(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars, "message": "Read all characters."})
}

// AddCharacter maneja POST /add.
func (h *CharacterHandler) AddCharacter(c *gin.Context) {
	var req addCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add character request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	character, err := h.characters.CreateCharacter(c.Request.Context(), service.CharacterInput{
		Name:           string(req.Name),
		BirthdaySeason: string(req.BirthdaySeason),
		BirthdayDay:    string(req.BirthdayDay),
		IsBachelor:     string(req.IsBachelor),
		BestGift:       string(req.BestGift),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"character": character, "message": "Added character successfully."})
}

// ChangeCharacter maneja POST /change.
func (h *CharacterHandler) ChangeCharacter(c *gin.Context) {
	var req changeCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid change character request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	character, err := h.characters.ChangeCharacter(c.Request.Context(), service.ChangeRequest{
		Name:                 string(req.Name),
		ChangeName:           req.ChangeName.ptr(),
		ChangeBirthdaySeason: req.ChangeBirthdaySeason.ptr(),
		ChangeBirthdayDay:    req.ChangeBirthdayDay.ptr(),
		ChangeIsBachelor:     req.ChangeIsBachelor.ptr(),
		ChangeBestGift:       req.ChangeBestGift.ptr(),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"character": character, "message": "Changed character successfully."})
}

func (h *CharacterHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNoChangeRequested),
		errors.Is(err, service.ErrUsage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCharacterExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, try again later"})
	default:
		h.logger.Error("character request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
