package locale

// Key 翻译键（封闭枚举）
type Key int

const (
	KeyChatError Key = iota
	KeyChatFallback
	KeyChatGreeting
	KeyChatQuickPricing
	KeyChatQuickPricingValue
	KeyChatQuickHospitals
	KeyChatQuickHospitalsValue
	KeyChatQuickBooking
	KeyChatQuickBookingValue
	KeyChatEscalation
	KeyVizError
	KeyVizFileTooLarge
	KeyVizInvalidFormat
	KeyVizDailyLimit
	KeyVizTimeout
	KeyVizUnknownProcedure
	KeyIntakeError
	KeySomethingWentWrong

	keyCount
)

var keyNames = [keyCount]string{
	KeyChatError:               "chatError",
	KeyChatFallback:            "chatFallback",
	KeyChatGreeting:            "chatGreeting",
	KeyChatQuickPricing:        "chatQuickPricing",
	KeyChatQuickPricingValue:   "chatQuickPricingValue",
	KeyChatQuickHospitals:      "chatQuickHospitals",
	KeyChatQuickHospitalsValue: "chatQuickHospitalsValue",
	KeyChatQuickBooking:        "chatQuickBooking",
	KeyChatQuickBookingValue:   "chatQuickBookingValue",
	KeyChatEscalation:          "chatEscalation",
	KeyVizError:                "vizError",
	KeyVizFileTooLarge:         "vizFileTooLarge",
	KeyVizInvalidFormat:        "vizInvalidFormat",
	KeyVizDailyLimit:           "vizDailyLimit",
	KeyVizTimeout:              "vizTimeout",
	KeyVizUnknownProcedure:     "vizUnknownProcedure",
	KeyIntakeError:             "intakeError",
	KeySomethingWentWrong:      "somethingWentWrong",
}

// String 返回键名（用于日志与 JSON）
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}
