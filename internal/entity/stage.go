package entity

// Stage é a enumeração fechada do progresso do fluxo de criação.
// Substitui a checagem implícita de "ID nulo" entre os passos:
// cada transição só acontece se a anterior foi concluída.
type Stage int

const (
	StageStart Stage = iota
	StageContactCreated
	StageLeadCreated
	StageLinked
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageStart:          "START",
	StageContactCreated: "CONTACT_CREATED",
	StageLeadCreated:    "LEAD_CREATED",
	StageLinked:         "LINKED",
	StageDone:           "DONE",
	StageFailed:         "FAILED",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal informa se o fluxo parou neste estágio (sucesso ou falha).
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}
