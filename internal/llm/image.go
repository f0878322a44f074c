package llm

import "regexp"

// imageURLPattern matches image links the model embeds in replies: either
// hosted designs (cloudinary) or direct image file URLs.
var imageURLPattern = regexp.MustCompile(
	`(?i)https?://[^\s]+(?:cloudinary\.com[^\s]*|(?:\.png|\.jpg|\.jpeg|\.webp|\.gif)(?:\?[^\s]*)?)`,
)

// ExtractImageURLs returns every image URL found in the reply text, in order.
func ExtractImageURLs(text string) []string {
	return imageURLPattern.FindAllString(text, -1)
}
