package openai

import (
	"encoding/base64"
	"fmt"
)

const systemPrompt = "You are a helpful medical assistant. This tool is not for diagnosis " +
	"but helps users understand if a mole or skin lesion may need medical attention. " +
	"Focus on the ABCDE criteria (Asymmetry, Border irregularity, Color variation, " +
	"Diameter >6mm, Evolution) in your assessment."

const userInstruction = "Please review this image and assess whether the mole or lesion " +
	"shows any risk signs. Consider the ABCDE criteria. Categorize it as low, medium, " +
	"or high risk, and explain why."

func imageDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
