package i18n

import "context"

type entry struct {
	pt string
	en string
}

// Catalog of user-facing gateway messages. UI layers render these directly.
var catalog = map[string]entry{
	"auth.header_missing":   {pt: "Cabeçalho de autorização ausente", en: "Authorization header is missing"},
	"auth.header_malformed": {pt: "Cabeçalho de autorização inválido", en: "Authorization header is malformed"},
	"auth.invalid_token":    {pt: "Credenciais inválidas ou expiradas", en: "Invalid or expired credentials"},
	"auth.role_not_found":   {pt: "User role not found", en: "User role not found"},
	"auth.insufficient":     {pt: "Permissão insuficiente para esta operação", en: "Insufficient permission for this operation"},
	"request.invalid_body":  {pt: "Corpo da requisição inválido", en: "Invalid request body"},
	"request.validation":    {pt: "Campos obrigatórios ausentes ou inválidos", en: "Required fields missing or invalid"},
	"server.unexpected":     {pt: "Erro interno inesperado", en: "Unexpected internal error"},
	"visitor.duplicate":     {pt: "Já existe um visitante com este e-mail", en: "A visitor with this email already exists"},
	"visitor.partial":       {pt: "Visitante salvo, mas o cadastro das crianças falhou", en: "Visitor saved, but registering the children failed"},
	"checkin.child_missing": {pt: "Criança não encontrada", en: "Child not found"},
	"member.not_found":      {pt: "Membro não encontrado", en: "Member not found"},
}

// T resolves a catalog key against the locale stored in ctx. Unknown keys
// return the key itself so missing translations surface in review.
func T(ctx context.Context, key string) string {
	e, ok := catalog[key]
	if !ok {
		return key
	}
	if isEnglish(FromContext(ctx)) {
		return e.en
	}
	return e.pt
}
