package template

import (
	"fmt"
	"strings"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"github.com/smallbiznis/gestionale/internal/quoteemail/domain"
)

type summaryRow struct {
	Label string
	Value string
}

type section struct {
	Title      string
	Paragraphs []string
}

// emailModel is the single source both renderers read from.
type emailModel struct {
	Subject     string
	PreviewText string
	Greeting    string
	Intro       string
	Summary     []summaryRow
	Sections    []section
	CTALabel    string
	CTAURL      string
	Signature   string
	Footer      []string
}

func buildModel(def domain.TemplateDefinition, c domain.EmailContext, customMessage string) emailModel {
	m := statusCopy(def, c)

	greeting := "Gentile cliente,"
	if c.ClientName != "" {
		greeting = fmt.Sprintf("Gentile %s,", c.ClientName)
	}
	m.Greeting = greeting
	m.Summary = summaryRows(c)

	if msg := strings.TrimSpace(customMessage); msg != "" {
		m.Sections = append([]section{{Title: "Messaggio", Paragraphs: paragraphs(msg)}}, m.Sections...)
	}

	m.Signature = c.Signature
	if c.Phone != "" {
		m.Footer = append(m.Footer, "Tel. "+c.Phone)
	}
	if c.ReplyTo != "" {
		m.Footer = append(m.Footer, "Email: "+c.ReplyTo)
	}
	return m
}

func statusCopy(def domain.TemplateDefinition, c domain.EmailContext) emailModel {
	subject := func(s string) string {
		if c.BusinessName == "" {
			return s
		}
		return s + " | " + c.BusinessName
	}
	quoteName := c.QuoteDescription
	if quoteName == "" {
		quoteName = "il tuo preventivo"
	}
	portal := func(m emailModel, label string) emailModel {
		if c.PortalURL != "" {
			m.CTALabel = label
			m.CTAURL = c.PortalURL
		}
		return m
	}

	switch crmdomain.QuoteStatus(def.Status) {
	case crmdomain.QuoteStatusPrimoContatto:
		return emailModel{
			Subject:     subject("Grazie per averci contattato"),
			PreviewText: "Abbiamo ricevuto la tua richiesta.",
			Intro:       "grazie per averci contattato. Abbiamo ricevuto la tua richiesta e ti risponderemo al piu' presto con una proposta.",
		}
	case crmdomain.QuoteStatusPreventivoInviato:
		return portal(emailModel{
			Subject:     subject("Il tuo preventivo"),
			PreviewText: fmt.Sprintf("Ti abbiamo inviato il preventivo per %s.", quoteName),
			Intro:       fmt.Sprintf("ti inviamo il preventivo per %s. Trovi qui sotto il riepilogo.", quoteName),
			Sections: []section{{
				Title:      "Prossimi passi",
				Paragraphs: []string{"Per accettare il preventivo o chiedere modifiche puoi rispondere direttamente a questa email."},
			}},
		}, "Visualizza il preventivo")
	case crmdomain.QuoteStatusInTrattativa:
		return emailModel{
			Subject:     subject("Aggiornamento sul tuo preventivo"),
			PreviewText: "Stiamo rivedendo insieme il preventivo.",
			Intro:       fmt.Sprintf("ti scriviamo per aggiornarti su %s. Stiamo valutando le modifiche di cui abbiamo parlato.", quoteName),
		}
	case crmdomain.QuoteStatusAccettato:
		m := emailModel{
			Subject:     subject("Preventivo accettato"),
			PreviewText: fmt.Sprintf("Confermiamo l'accettazione del preventivo di %s.", formatEuro(c.QuoteAmount)),
			Intro:       fmt.Sprintf("grazie per aver accettato il preventivo per %s.", quoteName),
		}
		m.Sections = append(m.Sections, paymentSection(c, "Per confermare la prenotazione puoi versare l'acconto con bonifico."))
		return portal(m, "Vedi i dettagli")
	case crmdomain.QuoteStatusAccontoRicevuto:
		return emailModel{
			Subject:     subject("Abbiamo ricevuto il tuo acconto"),
			PreviewText: fmt.Sprintf("Acconto ricevuto: %s.", formatEuro(latestOrPaid(c))),
			Intro:       fmt.Sprintf("confermiamo di aver ricevuto il tuo acconto di %s. Il lavoro e' ufficialmente in calendario.", formatEuro(latestOrPaid(c))),
			Sections: []section{{
				Title:      "Situazione pagamenti",
				Paragraphs: []string{fmt.Sprintf("Restano da saldare %s.", formatEuro(c.AmountDue))},
			}},
		}
	case crmdomain.QuoteStatusInLavorazione:
		return emailModel{
			Subject:     subject("Il lavoro e' in corso"),
			PreviewText: "Abbiamo iniziato a lavorare al tuo progetto.",
			Intro:       fmt.Sprintf("ti aggiorniamo che abbiamo iniziato a lavorare su %s. Ti scriveremo appena sara' pronto.", quoteName),
		}
	case crmdomain.QuoteStatusCompletato:
		m := emailModel{
			Subject:     subject("Lavoro completato"),
			PreviewText: "Il tuo progetto e' completato.",
			Intro:       fmt.Sprintf("siamo felici di comunicarti che %s e' completato.", quoteName),
		}
		if c.AmountDue > 0 {
			m.Sections = append(m.Sections, paymentSection(c, "Puoi procedere con il saldo tramite bonifico."))
		}
		return portal(m, "Scarica il materiale")
	case crmdomain.QuoteStatusSaldato:
		return emailModel{
			Subject:     subject("Pagamento ricevuto, grazie"),
			PreviewText: fmt.Sprintf("Pagamento completato: %s.", formatEuro(paidOrZero(c))),
			Intro:       fmt.Sprintf("confermiamo di aver ricevuto il saldo. In totale hai versato %s. Grazie per averci scelto.", formatEuro(paidOrZero(c))),
		}
	case crmdomain.QuoteStatusRifiutato:
		return emailModel{
			Subject:     subject("Riscontro sul preventivo"),
			PreviewText: "Abbiamo preso nota della tua decisione.",
			Intro:       "abbiamo preso nota che il preventivo non verra' accettato. Grazie comunque per averci considerato, restiamo a disposizione per il futuro.",
		}
	case crmdomain.QuoteStatusPerso:
		return emailModel{
			Subject:     subject("Chiusura del preventivo"),
			PreviewText: "Il preventivo e' stato archiviato.",
			Intro:       "ti informiamo che il preventivo e' stato archiviato. Se vuoi riprendere il discorso puoi rispondere a questa email.",
		}
	default:
		return emailModel{
			Subject:     subject("Aggiornamento sul tuo preventivo"),
			PreviewText: fmt.Sprintf("Nuovo stato: %s.", def.Label),
			Intro:       fmt.Sprintf("lo stato di %s e' stato aggiornato a \"%s\".", quoteName, def.Label),
		}
	}
}

func paymentSection(c domain.EmailContext, lead string) section {
	s := section{Title: "Pagamento", Paragraphs: []string{lead}}
	if c.IBAN != "" {
		s.Paragraphs = append(s.Paragraphs, "IBAN: "+c.IBAN)
	}
	s.Paragraphs = append(s.Paragraphs, fmt.Sprintf("Importo residuo: %s.", formatEuro(c.AmountDue)))
	return s
}

func summaryRows(c domain.EmailContext) []summaryRow {
	rows := []summaryRow{
		{Label: "Cliente", Value: c.ClientName},
		{Label: "Preventivo", Value: c.QuoteDescription},
		{Label: "Servizio", Value: c.ServiceType},
		{Label: "Progetto", Value: c.ProjectName},
		{Label: "Data evento", Value: eventDates(c)},
	}
	if c.QuoteAmount > 0 {
		rows = append(rows, summaryRow{Label: "Importo", Value: formatEuro(c.QuoteAmount)})
	}
	if c.AmountPaid != nil {
		rows = append(rows,
			summaryRow{Label: "Pagato", Value: formatEuro(*c.AmountPaid)},
			summaryRow{Label: "Da saldare", Value: formatEuro(c.AmountDue)},
		)
	}

	out := rows[:0]
	for _, row := range rows {
		if row.Value != "" {
			out = append(out, row)
		}
	}
	return out
}

func eventDates(c domain.EmailContext) string {
	start, end := formatDate(c.EventStart), formatDate(c.EventEnd)
	if start == "" || end == "" || start == end {
		if start != "" {
			return start
		}
		return end
	}
	return start + " - " + end
}

func latestOrPaid(c domain.EmailContext) float64 {
	if c.LatestReceivedPaymentAmount != nil {
		return *c.LatestReceivedPaymentAmount
	}
	return paidOrZero(c)
}

func paidOrZero(c domain.EmailContext) float64 {
	if c.AmountPaid == nil {
		return 0
	}
	return *c.AmountPaid
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
