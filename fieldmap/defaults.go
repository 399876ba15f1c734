package fieldmap

// Defaults returns the built-in selector registry. Order matters: earlier
// selectors express stronger structural intent and are tried first, but every
// selector in a list is evaluated independently and candidates are re-ranked
// by score afterwards.
func Defaults() SelectorSet {
	return SelectorSet{
		Email: {
			`input[type=email]`,
			`input[name*=email]`,
			`input[id*=email]`,
			`input[placeholder*=email]`,
			`input[name*=mail]`,
		},
		Phone: {
			`input[type=tel]`,
			`input[name*=phone]`,
			`input[id*=phone]`,
			`input[name*=tel]`,
			`input[placeholder*=phone]`,
			`input[name*=mobile]`,
		},
		Name: {
			`input[name*=name]`,
			`input[id*=name]`,
			`input[placeholder*=name]`,
		},
		Company: {
			`input[name*=company]`,
			`input[id*=company]`,
			`input[name*=business]`,
			`input[name*=organization]`,
		},
		Address: {
			`input[name*=address]`,
			`input[id*=address]`,
			`textarea[name*=address]`,
		},
		City: {
			`input[name*=city]`,
			`input[id*=city]`,
			`input[name*=town]`,
		},
		State: {
			`input[name*=state]`,
			`input[id*=state]`,
			`input[name*=province]`,
		},
		Zip: {
			`input[name*=zip]`,
			`input[id*=zip]`,
			`input[name*=postal]`,
			`input[name*=postcode]`,
		},
		Title: {
			`input[name*=title]`,
			`input[id*=title]`,
			`input[name*=subject]`,
		},
		Website: {
			`input[type=url]`,
			`input[name*=website]`,
			`input[id*=website]`,
			`input[name*=url]`,
		},
		Description: {
			`textarea[name*=description]`,
			`textarea[id*=description]`,
			`textarea[name*=about]`,
			`textarea`,
		},
		Keywords: {
			`input[name*=keyword]`,
			`input[id*=keyword]`,
			`input[name*=tags]`,
		},
		Password: {
			`input[type=password]`,
		},

		Facebook: {
			`input[name*=facebook]`,
			`input[id*=facebook]`,
			`input[placeholder*=facebook]`,
			`input[name*=fb]`,
		},
		Twitter: {
			`input[name*=twitter]`,
			`input[id*=twitter]`,
			`input[placeholder*=twitter]`,
		},
		Instagram: {
			`input[name*=instagram]`,
			`input[id*=instagram]`,
			`input[placeholder*=instagram]`,
		},
		LinkedIn: {
			`input[name*=linkedin]`,
			`input[id*=linkedin]`,
			`input[placeholder*=linkedin]`,
		},
		YouTube: {
			`input[name*=youtube]`,
			`input[id*=youtube]`,
			`input[placeholder*=youtube]`,
		},
		TikTok: {
			`input[name*=tiktok]`,
			`input[id*=tiktok]`,
		},

		Category: {
			`select[name*=category]`,
			`select[id*=category]`,
			`select[name*=cat]`,
			`select[name*=type]`,
		},
		Country: {
			`select[name*=country]`,
			`select[id*=country]`,
			`input[name*=country]`,
		},
		Region: {
			`select[name*=region]`,
			`select[name*=state]`,
			`select[id*=region]`,
			`input[name*=region]`,
		},
		Locality: {
			`select[name*=city]`,
			`select[id*=city]`,
			`input[name*=city]`,
		},
		Street: {
			`input[name*=street]`,
			`input[name*=address]`,
			`input[id*=street]`,
		},
	}
}
