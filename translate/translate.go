// Package translate formats user-visible messages for the rpnc tools in the
// language of the running user's locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:generate go tool gotext -srclang=en-US update -out=catalog.go -lang=en-US,pt-BR github.com/ezrec/rpnc/token github.com/ezrec/rpnc/rpn github.com/ezrec/rpnc/avr github.com/ezrec/rpnc/codegen github.com/ezrec/rpnc/emulator github.com/ezrec/rpnc/calc

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rpnc: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage forces the message printer to a specific language tag,
// overriding the locale detected at startup.
func SetLanguage(tag language.Tag) {
	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
