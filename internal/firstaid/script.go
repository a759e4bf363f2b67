// Package firstaid implements the scripted emergency-guidance chat.
// The content is a static decision tree: each topic is a sequence of
// steps, each step shows bilingual instructions and a set of options,
// and each option names the step it leads to.  The engine is pure
// lookup-table dispatch; no free-form understanding is attempted, and
// every topic ends by telling the user to call emergency services when
// in doubt.
package firstaid

// Text is one bilingual string, English and Amharic.
type Text struct {
	En string `json:"en"`
	Am string `json:"am"`
}

// Option is one selectable answer at a step.  Next is the index of the
// step the choice leads to within the same topic.
type Option struct {
	Label Text `json:"label"`
	Next  int  `json:"-"`
}

// Step is one screen of the flow: instructions to show, then either
// options to pick from or nothing (a terminal step).
type Step struct {
	Prompt       Text   `json:"prompt"`
	Instructions []Text `json:"instructions,omitempty"`
	Options      []Option `json:"options,omitempty"`
}

// Topic is a complete guided flow.  Step 0 is the entry point.
type Topic struct {
	ID    string `json:"id"`
	Title Text   `json:"title"`
	Steps []Step `json:"-"`
}

var topics = []Topic{
	{
		ID:    "cpr",
		Title: Text{En: "CPR (adult)", Am: "ሲፒአር (አዋቂ)"},
		Steps: []Step{
			{
				Prompt: Text{En: "Is the person responsive?", Am: "ሰውዬው ምላሽ ይሰጣል?"},
				Instructions: []Text{
					{En: "Tap their shoulders firmly and shout.", Am: "ትከሻቸውን በደንብ ነክተው ይጩሁ።"},
				},
				Options: []Option{
					{Label: Text{En: "Yes, responsive", Am: "አዎ፣ ምላሽ ይሰጣል"}, Next: 1},
					{Label: Text{En: "No response", Am: "ምላሽ የለም"}, Next: 2},
				},
			},
			{
				Prompt: Text{En: "Stay with them and watch their breathing.", Am: "ከጎናቸው ሆነው አተነፋፈሳቸውን ይከታተሉ።"},
				Instructions: []Text{
					{En: "Call 907 if their condition worsens.", Am: "ሁኔታቸው ከተባባሰ 907 ይደውሉ።"},
				},
			},
			{
				Prompt: Text{En: "Call 907 now, then start chest compressions.", Am: "አሁን 907 ይደውሉ፣ ከዚያ የደረት ግፊት ይጀምሩ።"},
				Instructions: []Text{
					{En: "Place both hands on the center of the chest.", Am: "እጆችዎን በደረቱ መሃል ያስቀምጡ።"},
					{En: "Push hard and fast, about 100-120 per minute.", Am: "በጠንካራና በፍጥነት ይግፉ፣ በደቂቃ 100-120 ጊዜ።"},
					{En: "Do not stop until help arrives.", Am: "እርዳታ እስኪደርስ አያቁሙ።"},
				},
			},
		},
	},
	{
		ID:    "choking",
		Title: Text{En: "Choking", Am: "መታፈን"},
		Steps: []Step{
			{
				Prompt: Text{En: "Can the person cough or speak?", Am: "ሰውዬው ማስነጠስ ወይም መናገር ይችላል?"},
				Options: []Option{
					{Label: Text{En: "Yes", Am: "አዎ"}, Next: 1},
					{Label: Text{En: "No", Am: "አይችልም"}, Next: 2},
				},
			},
			{
				Prompt: Text{En: "Encourage them to keep coughing.", Am: "ማስነጠሳቸውን እንዲቀጥሉ ያበረታቷቸው።"},
				Instructions: []Text{
					{En: "Do not slap their back while they can cough.", Am: "ማስነጠስ እስከቻሉ ድረስ ጀርባቸውን አይምቱ።"},
				},
			},
			{
				Prompt: Text{En: "Give 5 back blows, then 5 abdominal thrusts.", Am: "5 የጀርባ ምቶች ይስጡ፣ ከዚያ 5 የሆድ ግፊቶች።"},
				Instructions: []Text{
					{En: "Repeat until the object comes out.", Am: "እቃው እስኪወጣ ይድገሙ።"},
					{En: "If they collapse, call 907 and start CPR.", Am: "ከወደቁ 907 ይደውሉና ሲፒአር ይጀምሩ።"},
				},
			},
		},
	},
	{
		ID:    "bleeding",
		Title: Text{En: "Severe bleeding", Am: "ከባድ መድማት"},
		Steps: []Step{
			{
				Prompt: Text{En: "Apply firm, direct pressure on the wound.", Am: "በቁስሉ ላይ ቀጥተኛ ግፊት ያድርጉ።"},
				Instructions: []Text{
					{En: "Use a clean cloth if available.", Am: "ንጹህ ጨርቅ ካለ ይጠቀሙ።"},
				},
				Options: []Option{
					{Label: Text{En: "Bleeding slows", Am: "መድማቱ ቀነሰ"}, Next: 1},
					{Label: Text{En: "Bleeding continues", Am: "መድማቱ ቀጥሏል"}, Next: 2},
				},
			},
			{
				Prompt: Text{En: "Keep the pressure and bandage the wound.", Am: "ግፊቱን ይቀጥሉና ቁስሉን ይጠቅልሉ።"},
				Instructions: []Text{
					{En: "Seek medical care for stitches or cleaning.", Am: "ለመስፋት ወይም ለማጽዳት ሕክምና ይፈልጉ።"},
				},
			},
			{
				Prompt: Text{En: "Call 907. Do not remove the soaked cloth.", Am: "907 ይደውሉ። የደም ጨርቁን አያንሱ።"},
				Instructions: []Text{
					{En: "Add more cloth on top and keep pressing.", Am: "ተጨማሪ ጨርቅ ጨምረው መጫን ይቀጥሉ።"},
				},
			},
		},
	},
	{
		ID:    "burns",
		Title: Text{En: "Burns", Am: "ቃጠሎ"},
		Steps: []Step{
			{
				Prompt: Text{En: "Cool the burn under running water for 20 minutes.", Am: "ቃጠሎውን በሚፈስ ውሃ ለ20 ደቂቃ ያቀዘቅዙ።"},
				Instructions: []Text{
					{En: "Do not use ice, butter or toothpaste.", Am: "በረዶ፣ ቅቤ ወይም የጥርስ ሳሙና አይጠቀሙ።"},
				},
				Options: []Option{
					{Label: Text{En: "Small burn", Am: "ትንሽ ቃጠሎ"}, Next: 1},
					{Label: Text{En: "Large or deep burn", Am: "ትልቅ ወይም ጥልቅ ቃጠሎ"}, Next: 2},
				},
			},
			{
				Prompt: Text{En: "Cover loosely with a clean, non-stick dressing.", Am: "በንጹህ የማይጣበቅ መሸፈኛ በቀስታ ይሸፍኑ።"},
			},
			{
				Prompt: Text{En: "Call 907. Keep the person warm and still.", Am: "907 ይደውሉ። ሰውዬውን ሙቀትና እረፍት ያቆዩ።"},
			},
		},
	},
	{
		ID:    "fracture",
		Title: Text{En: "Suspected fracture", Am: "የአጥንት ስብራት ጥርጣሬ"},
		Steps: []Step{
			{
				Prompt: Text{En: "Keep the injured limb still. Is bone visible?", Am: "የተጎዳውን አካል አያንቀሳቅሱ። አጥንት ይታያል?"},
				Options: []Option{
					{Label: Text{En: "No", Am: "አይታይም"}, Next: 1},
					{Label: Text{En: "Yes (open fracture)", Am: "አዎ (ክፍት ስብራት)"}, Next: 2},
				},
			},
			{
				Prompt: Text{En: "Splint the limb in the position found.", Am: "አካሉን ባለበት ሁኔታ ያስተካክሉ።"},
				Instructions: []Text{
					{En: "Apply a cold pack wrapped in cloth and go to a clinic.", Am: "በጨርቅ የተጠቀለለ ቀዝቃዛ ነገር ጭነው ወደ ክሊኒክ ይሂዱ።"},
				},
			},
			{
				Prompt: Text{En: "Call 907. Cover the wound, do not push the bone in.", Am: "907 ይደውሉ። ቁስሉን ይሸፍኑ፣ አጥንቱን ወደ ውስጥ አይግፉ።"},
			},
		},
	},
}
