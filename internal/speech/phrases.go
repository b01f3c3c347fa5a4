package speech

import "fmt"

// Phrases below carry both languages; callers pick by Language. Urdu
// strings follow the original assistant's phrasing.

func Opening(lang Language, name string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("%s کھول رہا ہوں", name)
	}
	return fmt.Sprintf("Opening %s", name)
}

func Closed(lang Language, name string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("%s بند کر دیا", name)
	}
	return fmt.Sprintf("Closed %s", name)
}

func NotInstalled(lang Language, name string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("معذرت، %s انسٹال نہیں ہے", name)
	}
	return fmt.Sprintf("Sorry, %s is not installed", name)
}

func UnknownReference(lang Language) string {
	if lang == LangUrdu {
		return "مجھے معلوم نہیں آپ کس چیز کی بات کر رہے ہیں"
	}
	return "I don't know what you mean"
}

func NotSeenOpen(lang Language, name string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("%s کھلا نہیں ہے", name)
	}
	return fmt.Sprintf("I don't see %s open", name)
}

func CannotCheck(lang Language) string {
	if lang == LangUrdu {
		return "میں ابھی یہ چیک نہیں کر سکتا"
	}
	return "I can't check that right now"
}

func ActionFailed(lang Language) string {
	if lang == LangUrdu {
		return "معذرت، یہ کام نہیں ہوا"
	}
	return "Sorry, that didn't work"
}

func Cancelling(lang Language) string {
	if lang == LangUrdu {
		return "ٹھیک ہے، منسوخ کر رہا ہوں"
	}
	return "Okay, cancelling"
}

func WhichProfile(lang Language) string {
	if lang == LangUrdu {
		return "کون سا پروفائل؟ 'پروفائل ایک' یا 'ڈیفالٹ' کہیں"
	}
	return "Which profile? Say 'Profile 1', 'Profile 2', or 'Default'"
}

func ProfileOpened(lang Language, profile string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("پروفائل %s کھول دیا۔ اب کیا کروں؟", profile)
	}
	return fmt.Sprintf("Opened %s profile. What would you like to do?", profile)
}

func UnknownProfile(lang Language, spoken string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("پروفائل %s نہیں ملا", spoken)
	}
	return fmt.Sprintf("Unknown profile: %s. Try 'Profile 1' or 'Default'", spoken)
}

func Searching(lang Language, query string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("%s تلاش کر رہا ہوں", query)
	}
	return fmt.Sprintf("Searching for %s", query)
}

func SwitchedTo(lang Language, title string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("%s پر جا رہے ہیں", title)
	}
	return fmt.Sprintf("Switched to %s", title)
}

func Goodbye(lang Language) string {
	if lang == LangUrdu {
		return "خدا حافظ! اچھا دن گزرے"
	}
	return "Goodbye! Have a great day"
}

func NotSure(lang Language) string {
	if lang == LangUrdu {
		return "مجھے ابھی یہ کرنا نہیں آتا"
	}
	return "I'm not sure how to do that yet"
}

func WhatToSearch(lang Language) string {
	if lang == LangUrdu {
		return "کیا تلاش کروں؟"
	}
	return "What should I search for?"
}

func WhichSite(lang Language) string {
	if lang == LangUrdu {
		return "کون سی ویب سائٹ کھولوں؟ یا کہیں 'search for' اور اپنا سوال"
	}
	return "Which site should I open? Or say 'search for' and your query"
}

func WorkflowBusy(lang Language) string {
	if lang == LangUrdu {
		return "پہلے موجودہ کام مکمل کریں یا 'منسوخ' کہیں"
	}
	return "I'm in the middle of something. Finish that first or say 'cancel'"
}

func ConfirmPower(lang Language, action string) string {
	if lang == LangUrdu {
		return fmt.Sprintf("یقین کے لیے 'confirm %s' کہیں", action)
	}
	return fmt.Sprintf("Say 'confirm %s' if you really mean it", action)
}

func Forgot(lang Language) string {
	if lang == LangUrdu {
		return "ٹھیک ہے، سب بھول گیا"
	}
	return "Okay, I've cleared my memory of this conversation"
}
