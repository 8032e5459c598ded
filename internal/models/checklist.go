package models

// ChecklistItem describes one fixed verification item of the inspection form
type ChecklistItem struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Icon            string `json:"icon"`
	RequiresDetails bool   `json:"requiresDetails,omitempty"`
}

// ItensVerificacao is the fixed inspection catalog. Submission.Itens is keyed
// by these ids.
var ItensVerificacao = []ChecklistItem{
	{ID: "armamento", Label: "Armamento", Icon: "fa-gun", RequiresDetails: true},
	{ID: "colete", Label: "Colete", Icon: "fa-vest", RequiresDetails: true},
	{ID: "municao", Label: "Munição", Icon: "fa-box", RequiresDetails: true},
	{ID: "radio", Label: "Rádio HT (Bateria/Sinal)", Icon: "fa-walkie-talkie", RequiresDetails: true},
	{ID: "lanterna", Label: "Lanterna", Icon: "fa-lightbulb"},
	{ID: "livro", Label: "Livro de Ocorrências", Icon: "fa-book"},
	{ID: "limpeza", Label: "Limpeza do Posto", Icon: "fa-broom"},
	{ID: "detector", Label: "Detector de metal", Icon: "fa-magnifying-glass"},
	{ID: "sistema", Label: "Controle de teste sistema", Icon: "fa-desktop"},
}

// ListaPostos enumerates the guard posts of the site
var ListaPostos = []string{
	"LIDER.", "ENTRADA.", "ENTRADA/LATERAL.", "SAIDA.", "SAIDA/ABASTECIMENTO.",
	"BLINDADO.", "RECEPÇAO.", "COMBOX.", "G.ALTA.", "ESTACIONAMENTO.", "TRIAGEM.",
	"BOLSARIO.", "PAR.", "PAR/P.09.", "DAT.", "G.CEMITERIO.", "RETORNO/P.12.", "SORTER.",
}
