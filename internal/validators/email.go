package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid checa se o domínio do e-mail resolve (MX, ou A/AAAA
// como fallback) antes de criar a conta do profissional. Não garante que
// a caixa postal exista, só barra domínios digitados errado.
func IsEmailDomainValid(email string) bool {
	domain, ok := domainOf(email)
	if !ok {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}

func domainOf(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}
