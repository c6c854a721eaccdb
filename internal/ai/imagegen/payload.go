package imagegen

// NegativePrompt lists what every generated image should avoid.
const NegativePrompt = "low quality, bad anatomy, distorted, watermark, text, signature, blur, grainy"

// CFGScale is the guidance scale sent with every request.
const CFGScale = 7.0

type textToImageParams struct {
	Text         string `json:"text"`
	NegativeText string `json:"negativeText"`
}

type imageGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CFGScale       float64 `json:"cfgScale"`
	Seed           int64   `json:"seed"`
}

type textToImageRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     textToImageParams     `json:"textToImageParams"`
	ImageGenerationConfig imageGenerationConfig `json:"imageGenerationConfig"`
}

func newTextToImageRequest(prompt string, size Size, seed int64) textToImageRequest {
	return textToImageRequest{
		TaskType: "TEXT_IMAGE",
		TextToImageParams: textToImageParams{
			Text:         prompt,
			NegativeText: NegativePrompt,
		},
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Width:          size.Width,
			Height:         size.Height,
			CFGScale:       CFGScale,
			Seed:           seed,
		},
	}
}
