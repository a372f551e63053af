package onboarding

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDeployDomain dominio base cuando no se configura otro.
const DefaultDeployDomain = "pipeelo.com"

// DeploymentURL arma la URL pública del tenant: nombre en minúsculas con los espacios
// convertidos en guiones, como subdominio de domain. "Acme Co" -> https://acme-co.pipeelo.com
func DeploymentURL(name, domain string) string {
	if domain == "" {
		domain = DefaultDeployDomain
	}
	slug := strings.Join(strings.Fields(cases.Lower(language.Und).String(name)), "-")
	return "https://" + slug + "." + domain
}
