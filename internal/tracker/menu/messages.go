package menu

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys are the en-US texts.
const (
	msgMenuLine        = "%d = %s"
	msgLabelInitSchema = "Create new tables/db"
	msgLabelSeed       = "Insert data"
	msgLabelReport     = "Select data"
	msgLabelDelete     = "Delete task"
	msgLabelUpdate     = "Update task"
	msgLabelExit       = "Exit"
	msgWhichOption     = "Which Option?"
	msgChoice          = "Choice %d"
	msgInvalidOption   = "Invalid option"
	msgNotANumber      = "Please enter a whole number."
	msgBye             = "Bye"
	msgWhichID         = "Which id?"
	msgNewName         = "What is the new name?"
	msgQueryByPriority = "1. Query task by priority:"
	msgQueryAll        = "2. Query all tasks"
	msgTablesReady     = "Tables ready."
	msgTablesFailed    = "Could not create tables: %v"
	msgSeeded          = "Inserted project %d with %d tasks."
	msgDeleted         = "Deleted task %d."
	msgRenamed         = "Renamed task %d."
	msgNoTask          = "No task with id %d."
)

var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var translations = map[language.Tag]map[string]string{
	language.BrazilianPortuguese: {
		msgLabelInitSchema: "Criar tabelas/banco",
		msgLabelSeed:       "Inserir dados",
		msgLabelReport:     "Consultar dados",
		msgLabelDelete:     "Excluir tarefa",
		msgLabelUpdate:     "Atualizar tarefa",
		msgLabelExit:       "Sair",
		msgWhichOption:     "Qual opção?",
		msgChoice:          "Escolha %d",
		msgInvalidOption:   "Opção inválida",
		msgNotANumber:      "Digite um número inteiro.",
		msgBye:             "Tchau",
		msgWhichID:         "Qual id?",
		msgNewName:         "Qual é o novo nome?",
		msgQueryByPriority: "1. Tarefas por prioridade:",
		msgQueryAll:        "2. Todas as tarefas",
		msgTablesReady:     "Tabelas prontas.",
		msgTablesFailed:    "Não foi possível criar as tabelas: %v",
		msgSeeded:          "Projeto %d inserido com %d tarefas.",
		msgDeleted:         "Tarefa %d excluída.",
		msgRenamed:         "Tarefa %d renomeada.",
		msgNoTask:          "Nenhuma tarefa com id %d.",
	},
}

var menuCatalog = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for tag, messages := range translations {
		for key, msg := range messages {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// NewPrinter returns a printer for the closest supported locale. Unknown or
// malformed locales get en-US.
func NewPrinter(locale string) *message.Printer {
	return message.NewPrinter(MatchLocale(locale), message.Catalog(menuCatalog))
}

// MatchLocale resolves locale to one of the supported tags.
func MatchLocale(locale string) language.Tag {
	matcher := language.NewMatcher(supportedLocales)
	_, idx, _ := matcher.Match(language.Make(locale))
	return supportedLocales[idx]
}

// say prints the localized message for key followed by a newline.
func say(w io.Writer, p *message.Printer, key string, args ...any) {
	p.Fprintf(w, key, args...)
	fmt.Fprintln(w)
}
