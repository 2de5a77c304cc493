package domain

// StatusKind mirrors the info / success / error styling of a status line.
type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is a user-facing message ready to be displayed as-is.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// game status lines
const (
	StatusPickColors       = "Cada jogador escolha uma cor diferente e clique em \"Começar\"."
	StatusColorsChosen     = "Cores escolhidas? Clique em \"Começar\"."
	StatusPickBeforeStart  = "Escolha as cores dos dois jogadores antes de começar."
	StatusColorsMustDiffer = "As cores devem ser diferentes."
	StatusStarted          = "Jogo iniciado! Vez do Jogador 1."
	StatusPickAndStart     = "Escolha as cores dos dois jogadores e clique em \"Começar\"."
	StatusColumnFull       = "Coluna cheia. Escolha outra coluna."
	StatusVictoryFmt       = "Vitória do %s!"
	StatusDraw             = "Empate!"
	StatusTurnFmt          = "Vez do %s."
	StatusReset            = "Tabuleiro resetado! Escolha as cores e clique em \"Começar\"."
	StatusPickAgain        = "Escolha as cores novamente e clique em \"Começar\"."
)

// address lookup status lines
const (
	MsgInvalidCEP      = "CEP inválido. Use 8 dígitos."
	MsgCEPNotFound     = "CEP não encontrado."
	MsgAddressFound    = "Endereço encontrado!"
	MsgLookupFailed    = "Falha na busca. Verifique sua conexão."
	MsgSavedFmt        = "Endereço salvo com sucesso! (ID: %d)"
	MsgSaveFailed      = "Erro ao salvar o endereço. Tente novamente."
	MsgNoValidCEP      = "Nenhum CEP válido para buscar."
	MsgBatchDone       = "Busca concluída!"
	MsgBatchFailed     = "Houve um erro ao buscar os CEPs. Verifique sua conexão."
	MsgTimeoutFoundFmt = "CEP encontrado: %s"
	MsgTimeout         = "A busca demorou demais (timeout). Tente novamente."
	MsgInvalidRequest  = "Requisição inválida."
)
