package reply

import (
	"strings"

	"estatepilot_backend/internal/classify"
)

// TemplateKey identifies a localized static template.
type TemplateKey string

const (
	// Salutations
	TemplateGreeting TemplateKey = "hi"
	TemplateHello    TemplateKey = "hello"
	// Qualification questions
	TemplateBudgetQuestion   TemplateKey = "budget"
	TemplateUnitTypeQuestion TemplateKey = "unitType"
	TemplateTimelineQuestion TemplateKey = "timeline"
	// Escalation
	TemplateUnknown     TemplateKey = "unknown"
	TemplateDataMissing TemplateKey = "dataMissing"
	// Follow-ups
	TemplateFollowUpHot  TemplateKey = "followupHot"
	TemplateFollowUpWarm TemplateKey = "followupWarm"
	TemplateFollowUpCold TemplateKey = "followupCold"
	// Support and errors
	TemplateNoProject    TemplateKey = "noProject"
	TemplateProcessError TemplateKey = "processError"
)

type localized map[classify.Language]string

var templates = map[TemplateKey]localized{
	TemplateGreeting: {
		classify.LanguageEnglish:  "Hello! Welcome to {projectName}. I'm your AI assistant. How can I help you with our {projectName} project today?",
		classify.LanguageHindi:    "नमस्ते! {projectName} में आपका स्वागत है। मैं आपकी AI सहायक हूँ। आज मैं आपकी {projectName} प्रोजेक्ट के बारे में कैसे मदद कर सकती हूँ?",
		classify.LanguageHinglish: "Hello! {projectName} mein aapka swagat hai. I'm your AI assistant. Aaj main aapki {projectName} project ke baare mein kaise help kar sakti hoon?",
	},
	TemplateHello: {
		classify.LanguageEnglish:  "Hello! Thanks for reaching out about {projectName}. What information would you like to know?",
		classify.LanguageHindi:    "नमस्ते! {projectName} के बारे में संपर्क करने के लिए धन्यवाद। आप क्या जानकारी चाहते हैं?",
		classify.LanguageHinglish: "Hello! {projectName} ke baare mein contact karne ke liye dhanyawaad. Aap kya jaankari chahte hain?",
	},
	TemplateBudgetQuestion: {
		classify.LanguageEnglish:  "To help you better, could you please share your approximate budget range?\n\n1. ₹50L - ₹1Cr\n2. ₹1Cr - ₹2Cr\n3. ₹2Cr+",
		classify.LanguageHindi:    "आपकी बेहतर सहायता के लिए, कृपया अपना अनुमानित बजट सीमा साझा करें?\n\n1. ₹50 लाख - ₹1 करोड़\n2. ₹1 करोड़ - ₹2 करोड़\n3. ₹2 करोड़+",
		classify.LanguageHinglish: "Aapki better help ke liye, please apna approximate budget range share karein?\n\n1. ₹50L - ₹1Cr\n2. ₹1Cr - ₹2Cr\n3. ₹2Cr+",
	},
	TemplateUnitTypeQuestion: {
		classify.LanguageEnglish:  "What type of unit are you looking for?\n\n1. 2 BHK\n2. 3 BHK\n3. 4 BHK\n4. Penthouse",
		classify.LanguageHindi:    "आप किस प्रकार का यूनिट ढूंढ रहे हैं?\n\n1. 2 बीएचके\n2. 3 बीएचके\n3. 4 बीएचके\n4. पेंटहाउस",
		classify.LanguageHinglish: "Aap kis type ka unit dhoondh rahe hain?\n\n1. 2 BHK\n2. 3 BHK\n3. 4 BHK\n4. Penthouse",
	},
	TemplateTimelineQuestion: {
		classify.LanguageEnglish:  "What is your planned timeline for purchase?\n\n1. Immediate (within 1 month)\n2. Short-term (1-3 months)\n3. Medium-term (3-6 months)\n4. Just exploring",
		classify.LanguageHindi:    "खरीद के लिए आपकी नियोजित समय सीमा क्या है?\n\n1. तत्काल (1 महीने के भीतर)\n2. अल्पकालिक (1-3 महीने)\n3. मध्यम अवधि (3-6 महीने)\n4. बस एक्सप्लोर कर रहे हैं",
		classify.LanguageHinglish: "Purchase ke liye aapki planned timeline kya hai?\n\n1. Immediate (within 1 month)\n2. Short-term (1-3 months)\n3. Medium-term (3-6 months)\n4. Just exploring",
	},
	TemplateUnknown: {
		classify.LanguageEnglish:  "I'll connect you with our sales team who can provide more detailed assistance.",
		classify.LanguageHindi:    "मैं आपको हमारी सेल्स टीम से कनेक्ट करूंगा जो अधिक विस्तृत सहायता प्रदान कर सकती है।",
		classify.LanguageHinglish: "Main aapko humari sales team se connect karunga jo detailed assistance provide kar sakti hai.",
	},
	TemplateDataMissing: {
		classify.LanguageEnglish:  "I need to connect you with our team for accurate information on this.",
		classify.LanguageHindi:    "इस पर सटीक जानकारी के लिए मुझे आपको हमारी टीम से जोड़ने की आवश्यकता है।",
		classify.LanguageHinglish: "Is par accurate information ke liye main aapko humari team se jodna hoga.",
	},
	TemplateFollowUpHot: {
		classify.LanguageEnglish:  "Hi {name}, following up on your interest in {projectName}. Have any questions about {unitType}? Our team can schedule a site visit.",
		classify.LanguageHindi:    "नमस्ते {name}, {projectName} में आपकी रुचि का अनुसरण कर रहे हैं। {unitType} के बारे में कोई प्रश्न हैं? हमारी टीम साइट विज़िट शेड्यूल कर सकती है।",
		classify.LanguageHinglish: "Hi {name}, {projectName} mein aapki interest ka follow up kar rahe hain. {unitType} ke baare mein koi questions hain? Humari team site visit schedule kar sakti hai.",
	},
	TemplateFollowUpWarm: {
		classify.LanguageEnglish:  "Hello {name}, hope you're doing well. Wanted to share updates on {projectName}. We still have units available in {unitType}.",
		classify.LanguageHindi:    "नमस्ते {name}, आशा है आप ठीक हैं। {projectName} पर अपडेट साझा करना चाहते थे। {unitType} में यूनिट अभी उपलब्ध हैं।",
		classify.LanguageHinglish: "Hello {name}, hope aap theek hain. {projectName} par updates share karna chahte the. {unitType} mein units abhi available hain.",
	},
	TemplateFollowUpCold: {
		classify.LanguageEnglish:  "Hello {name}, just checking in about {projectName}. Let me know if you'd like any more information.",
		classify.LanguageHindi:    "नमस्ते {name}, {projectName} के बारे में बस जानकारी ले रहे हैं। यदि आपको और जानकारी चाहिए तो बताएं।",
		classify.LanguageHinglish: "Hello {name}, bas {projectName} ke baare mein check kar rahe hain. Aur jaankari chahiye to bataiye.",
	},
	TemplateNoProject: {
		classify.LanguageEnglish:  "No active projects found. Please contact support.",
		classify.LanguageHindi:    "कोई सक्रिय प्रोजेक्ट नहीं मिला। कृपया सपोर्ट से संपर्क करें।",
		classify.LanguageHinglish: "Koi active project nahi mila. Please support se contact karein.",
	},
	TemplateProcessError: {
		classify.LanguageEnglish:  "Sorry, I'm having trouble processing your request. Our team will contact you shortly.",
		classify.LanguageHindi:    "क्षमा करें, आपके अनुरोध को संसाधित करने में समस्या हो रही है। हमारी टीम जल्द ही आपसे संपर्क करेगी।",
		classify.LanguageHinglish: "Sorry, aapki request process karne mein problem ho rahi hai. Humari team jald hi aapse contact karegi.",
	},
}

// Template returns the localized template with {param} placeholders
// substituted. Falls back to English when the language variant is missing
// and to the generic handoff line when the key is unknown.
func Template(key TemplateKey, language classify.Language, params map[string]string) string {
	set, ok := templates[key]
	if !ok {
		return "I'll connect you with our team."
	}

	text, ok := set[language]
	if !ok {
		text = set[classify.LanguageEnglish]
	}

	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
