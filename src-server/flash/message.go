package flash

type Category string

const (
	CATEGORY_SUCCESS = Category("success")
	CATEGORY_INFO    = Category("info")
	CATEGORY_WARNING = Category("warning")
	CATEGORY_DANGER  = Category("danger")
)

type Message struct {
	Category Category `json:"c"`
	Text     string   `json:"t"`
}

func Success(text string) Message { return Message{Category: CATEGORY_SUCCESS, Text: text} }
func Warning(text string) Message { return Message{Category: CATEGORY_WARNING, Text: text} }
func Danger(text string) Message  { return Message{Category: CATEGORY_DANGER, Text: text} }
