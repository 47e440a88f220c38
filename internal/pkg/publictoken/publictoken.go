package publictoken

import (
	"strings"

	"github.com/google/uuid"
)

// Generator выдаёт непрозрачные токены публичного трекинга на основе UUIDv4 (122 случайных бита).
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
