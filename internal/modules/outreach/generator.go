package outreach

import (
	"context"
	"fmt"
	"strings"

	"formatech/internal/domain"
	"formatech/internal/pkg/logger"

	"github.com/sashabaranov/go-openai"
)

type MessageKind string

const (
	KindLinkedinConnection MessageKind = "linkedin_connection"
	KindLinkedinMessage    MessageKind = "linkedin_message"
	KindEmailIntro         MessageKind = "email_intro"
	KindEmailFollowUp      MessageKind = "email_followup"
	KindEmailWhitepaper    MessageKind = "email_whitepaper"
)

// ContactContext is everything the generator knows about the recipient.
type ContactContext struct {
	Contact      domain.Contact
	Company      *domain.Company
	Interactions []domain.Interaction
	Extra        string
}

type MessageGenerator interface {
	Generate(ctx context.Context, cc ContactContext, kind MessageKind) (string, error)
}

const systemPrompt = "Tu es un expert en prospection B2B pour Formatech, un organisme de formation professionnelle."

type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, cc ContactContext, kind MessageKind) (string, error) {
	logger.Debug(ctx, "generating outreach message", "model", g.model, "kind", kind)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(cc, kind)},
		},
		MaxCompletionTokens: 1024,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var instructions = map[MessageKind]string{
	KindLinkedinConnection: `Génère une demande de connexion LinkedIn courte et personnalisée (max 300 caractères).
Le message doit :
- Être professionnel mais chaleureux
- Mentionner un point commun ou un intérêt pour leur domaine
- Ne PAS être commercial directement
- Donner envie d'accepter la connexion

Réponds uniquement avec le message, sans guillemets ni explication.`,

	KindLinkedinMessage: `Génère un message LinkedIn de prospection personnalisé (max 500 caractères).
Le message doit :
- Commencer par une accroche personnalisée liée à leur poste/entreprise
- Mentionner brièvement Formatech et notre expertise en formation
- Proposer une valeur concrète (insight, ressource, échange)
- Terminer par une question ouverte ou une proposition de call
- Être naturel, pas commercial

Réponds uniquement avec le message, sans guillemets ni explication.`,

	KindEmailIntro: `Génère un email de premier contact professionnel.
L'email doit inclure :
- Un objet accrocheur et personnalisé
- Une accroche liée à leur entreprise/secteur
- Présentation concise de Formatech et de notre valeur pour leurs plans de formation
- Une proposition concrète (démo, call, ressource gratuite)
- Un CTA clair

Format de réponse :
OBJET: [objet de l'email]

[Corps de l'email]`,

	KindEmailFollowUp: `Génère un email de relance courtois suite à un premier contact sans réponse.
L'email doit :
- Être court (3-4 phrases max)
- Rappeler brièvement le contexte
- Apporter une nouvelle valeur (chiffre, insight, cas client)
- Proposer une alternative simple (call de 15min, envoi de doc)

Format de réponse :
OBJET: [objet de l'email]

[Corps de l'email]`,

	KindEmailWhitepaper: `Génère un email proposant un livre blanc sur la formation en entreprise.
L'email doit :
- Avoir un objet qui donne envie d'ouvrir
- Accrocher avec un problème/enjeu de leur secteur
- Présenter le livre blanc comme une ressource de valeur
- Inciter à télécharger sans être trop commercial

Format de réponse :
OBJET: [objet de l'email]

[Corps de l'email]`,
}

const genericInstruction = "Génère un message de prospection personnalisé pour ce contact."

// BuildPrompt renders the contact context followed by the instruction of kind.
// Unknown kinds get a generic instruction.
func BuildPrompt(cc ContactContext, kind MessageKind) string {
	var b strings.Builder
	c := cc.Contact

	b.WriteString("Voici les informations sur le contact :\n")
	fmt.Fprintf(&b, "- Prénom : %s\n", c.FirstName)
	fmt.Fprintf(&b, "- Nom : %s\n", c.LastName)
	fmt.Fprintf(&b, "- Poste : %s\n", orDefault(c.Function, "Non renseigné"))
	if co := cc.Company; co != nil {
		fmt.Fprintf(&b, "- Entreprise : %s\n", co.Name)
		fmt.Fprintf(&b, "- Secteur : %s\n", orDefault(string(co.Sector), "Non renseigné"))
		fmt.Fprintf(&b, "- Description entreprise : %s\n", orDefault(co.Description, "Non renseignée"))
	} else {
		b.WriteString("- Entreprise : Non renseignée\n")
	}

	if len(cc.Interactions) > 0 {
		b.WriteString("\nHistorique des interactions récentes :\n")
		for _, in := range cc.Interactions {
			fmt.Fprintf(&b, "- %s: %s\n", in.Type, orDefault(in.Content, "Pas de détail"))
		}
	}
	if extra := strings.TrimSpace(cc.Extra); extra != "" {
		fmt.Fprintf(&b, "\nContexte supplémentaire : %s\n", extra)
	}

	b.WriteString("\n")
	if text, ok := instructions[kind]; ok {
		b.WriteString(text)
	} else {
		b.WriteString(genericInstruction)
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
