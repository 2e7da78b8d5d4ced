package validators

import "testing"

func TestIsEmailDomainValid_Malformed(t *testing.T) {
	// Rejeitados antes de qualquer consulta DNS.
	for _, email := range []string{"", "sem-arroba", "@dominio.com", "usuario@"} {
		if IsEmailDomainValid(email) {
			t.Errorf("%q must be rejected", email)
		}
	}
}
