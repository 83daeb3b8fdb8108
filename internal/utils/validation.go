package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Les erreurs de validation utilisent les noms JSON plutôt que les noms Go
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notfutureyear", notFutureYear)
	}
}

// notFutureYear refuse une année postérieure à l'année en cours
func notFutureYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(time.Now().Year())
}

// FieldErrors regroupe des messages par champ, rendus tels quels au client
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return "validation: " + strings.Join(parts, ", ")
}

// BindError construit le corps d'erreur 400 pour une erreur de binding gin
func BindError(err error) gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := FieldErrors{}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return ValidationError(fields)
	}

	var ferrs FieldErrors
	if errors.As(err, &ferrs) {
		return ValidationError(ferrs)
	}
	return gin.H{"error": "Requête invalide"}
}

func ValidationError(fields FieldErrors) gin.H {
	return gin.H{"error": "Données invalides", "fields": fields}
}

func fieldMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Ce champ est obligatoire."
	case "email":
		return "Adresse email invalide."
	case "max":
		if isText {
			return fmt.Sprintf("Ce champ ne doit pas dépasser %s caractères.", fe.Param())
		}
		return fmt.Sprintf("La valeur doit être inférieure ou égale à %s.", fe.Param())
	case "min":
		if isText {
			return fmt.Sprintf("Ce champ doit contenir au moins %s caractères.", fe.Param())
		}
		return fmt.Sprintf("La valeur doit être supérieure ou égale à %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("La valeur doit être supérieure à %s.", fe.Param())
	case "notfutureyear":
		return "L'année ne peut pas être dans le futur."
	case "eqfield":
		return "Les valeurs ne correspondent pas."
	default:
		return "Valeur invalide."
	}
}
