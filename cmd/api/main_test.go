package main

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
)

// The route table is the public contract of the migration; a missing entry
// breaks a legacy client silently.
func TestRegisterRoutesCoversLegacySurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{APIPrefix: "/api"}

	registerRoutes(r, cfg, nil, nil, nil, nil, nil, nil, nil)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /login",
		"GET /api/alumnos",
		"POST /api/alumnos",
		"GET /api/alumnos/:matricula",
		"DELETE /api/alumnos/:matricula",
		"GET /api/asistencias",
		"POST /api/asistencias",
		"GET /api/asistencias/verificar-duplicado/",
		"GET /api/asistencias/resumen-alumno/:matricula",
		"GET /api/asistencias/resumen-materia/:claveM/:numGrup",
		"GET /api/asistencias/pase-lista-grupo/:numGrup",
		"GET /api/asistencias/horario-alumno/:matricula",
		"GET /api/profesor/:claveP/materias",
		"GET /profesores/:claveP/horario",
		"GET /asistencia-profesores/",
		"GET /terminal/buscar-alumno",
		"GET /terminal/buscar-profesor",
		"POST /terminal/registrar-asistencia",
		"POST /terminal/registrar-asistencia-profesor",
		"GET /reportes/excel_asistencias",
		"GET /reportes/excel_asistencias_profesor",
		"GET /reportes/descargas/:token",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
