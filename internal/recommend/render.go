package recommend

import (
	"strings"

	"symptomtriage/internal/model"
)

// Disclaimer closes every rendered recommendation.
const Disclaimer = "This assessment is AI-assisted and is not a substitute for professional medical advice, diagnosis, or treatment."

// Score at or above which an URGENT result suggests the ER over urgent care.
const urgentEscalationScore = 50

// Render produces the recommendation text for an urgency level.
func Render(level model.UrgencyLevel, symptomName string, score int) string {
	var b strings.Builder
	name := strings.ToLower(symptomName)

	switch level {
	case model.UrgencyEmergency:
		b.WriteString("SEEK EMERGENCY CARE IMMEDIATELY.\n\n")
		b.WriteString("Call emergency services (911) or go to the nearest emergency room now. ")
		b.WriteString("Do not drive yourself if you feel faint, confused, or short of breath.\n")
		if strings.Contains(name, "chest pain") {
			b.WriteString("\nIf you are not allergic and have not been told to avoid it, chew one regular-strength aspirin (325 mg) while waiting for help. ")
			b.WriteString("Stay seated and keep calm.\n")
		}
		if strings.Contains(name, "stroke") {
			b.WriteString("\nNote the time symptoms started. Stroke treatment is time-sensitive and works best within the first few hours. ")
			b.WriteString("Check for face drooping, arm weakness, and speech difficulty.\n")
		}
	case model.UrgencyUrgent:
		b.WriteString("SEEK MEDICAL CARE WITHIN 2-4 HOURS.\n\n")
		b.WriteString("Visit an urgent care clinic or contact your doctor for a same-day appointment. ")
		b.WriteString("If symptoms worsen suddenly, call emergency services.\n")
		if score >= urgentEscalationScore {
			b.WriteString("\nYour score is close to the emergency range. Consider going to an emergency room rather than urgent care.\n")
		}
	case model.UrgencySemiUrgent:
		b.WriteString("CONTACT YOUR PRIMARY CARE PROVIDER WITHIN 24-48 HOURS.\n\n")
		b.WriteString("Schedule an appointment to have your symptoms evaluated.\n")
		b.WriteString("- Monitor your symptoms and note any changes\n")
		b.WriteString("- Seek care sooner if symptoms get worse or new symptoms appear\n")
	case model.UrgencyNonUrgent:
		b.WriteString("SCHEDULE A ROUTINE APPOINTMENT WITHIN 1-2 WEEKS.\n\n")
		b.WriteString("Your symptoms do not appear urgent but are worth discussing with a healthcare provider.\n")
		b.WriteString("- Keep a symptom diary: when it happens, how long it lasts, what helps\n")
		b.WriteString("- Bring the diary to your appointment\n")
	default:
		b.WriteString("SELF-CARE AT HOME IS LIKELY APPROPRIATE.\n\n")
		b.WriteString("- Rest and get enough sleep\n")
		b.WriteString("- Stay hydrated\n")
		b.WriteString("- Use over-the-counter remedies as directed on the label\n")
		b.WriteString("- Monitor your symptoms\n")
		b.WriteString("\nSee a healthcare provider if symptoms persist for more than 5-7 days or get worse.\n")
	}

	b.WriteString("\n")
	b.WriteString(Disclaimer)
	return b.String()
}
