// token emite un JWT de desarrollo firmado con JWT_SECRET.
//
// Uso:
//
//	go run ./cmd/token -role admin
//	go run ./cmd/token -role patient -patient patient1
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/pkg/config"
	"github.com/pathassist/lab-billing/pkg/jwt"
)

func main() {
	role := flag.String("role", entity.RoleAdmin, "rol del token: admin | patient")
	patientID := flag.String("patient", "", "patient_id (obligatorio para rol patient)")
	userID := flag.String("user", "", "user_id; por defecto un UUID nuevo")
	expMin := flag.Int("exp", 0, "minutos de validez; por defecto JWT_EXPIRATION_MINUTES")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !entity.IsValidRole(*role) {
		fmt.Fprintf(os.Stderr, "rol inválido %q\n", *role)
		os.Exit(1)
	}
	if *role == entity.RolePatient && *patientID == "" {
		fmt.Fprintln(os.Stderr, "el rol patient requiere -patient")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.New().String()
	}
	if *expMin == 0 {
		*expMin = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, *patientID, cfg.JWT.Issuer, *expMin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
