package questionbank

import "capitals-quiz/internal/domain"

// capitals is the built-in catalog, grouped by tier.
var capitals = []domain.CapitalFact{
	// easy
	{Country: "United States", Capital: "Washington, D.C.", Tier: domain.TierEasy},
	{Country: "United Kingdom", Capital: "London", Tier: domain.TierEasy},
	{Country: "France", Capital: "Paris", Tier: domain.TierEasy},
	{Country: "Germany", Capital: "Berlin", Tier: domain.TierEasy},
	{Country: "Italy", Capital: "Rome", Tier: domain.TierEasy},
	{Country: "Spain", Capital: "Madrid", Tier: domain.TierEasy},
	{Country: "Canada", Capital: "Ottawa", Tier: domain.TierEasy},
	{Country: "Australia", Capital: "Canberra", Tier: domain.TierEasy},
	{Country: "Japan", Capital: "Tokyo", Tier: domain.TierEasy},
	{Country: "China", Capital: "Beijing", Tier: domain.TierEasy},
	{Country: "Russia", Capital: "Moscow", Tier: domain.TierEasy},
	{Country: "Brazil", Capital: "Brasilia", Tier: domain.TierEasy},
	{Country: "India", Capital: "New Delhi", Tier: domain.TierEasy},
	{Country: "Mexico", Capital: "Mexico City", Tier: domain.TierEasy},
	{Country: "South Africa", Capital: "Pretoria", Tier: domain.TierEasy},
	{Country: "Egypt", Capital: "Cairo", Tier: domain.TierEasy},
	{Country: "Greece", Capital: "Athens", Tier: domain.TierEasy},
	{Country: "Turkey", Capital: "Ankara", Tier: domain.TierEasy},
	{Country: "South Korea", Capital: "Seoul", Tier: domain.TierEasy},
	{Country: "Switzerland", Capital: "Bern", Tier: domain.TierEasy},

	// medium
	{Country: "Argentina", Capital: "Buenos Aires", Tier: domain.TierMedium},
	{Country: "Ireland", Capital: "Dublin", Tier: domain.TierMedium},
	{Country: "Netherlands", Capital: "Amsterdam", Tier: domain.TierMedium},
	{Country: "New Zealand", Capital: "Wellington", Tier: domain.TierMedium},
	{Country: "Norway", Capital: "Oslo", Tier: domain.TierMedium},
	{Country: "Poland", Capital: "Warsaw", Tier: domain.TierMedium},
	{Country: "Portugal", Capital: "Lisbon", Tier: domain.TierMedium},
	{Country: "Saudi Arabia", Capital: "Riyadh", Tier: domain.TierMedium},
	{Country: "Sweden", Capital: "Stockholm", Tier: domain.TierMedium},
	{Country: "Thailand", Capital: "Bangkok", Tier: domain.TierMedium},
	{Country: "Ukraine", Capital: "Kyiv", Tier: domain.TierMedium},
	{Country: "Vietnam", Capital: "Hanoi", Tier: domain.TierMedium},
	{Country: "Austria", Capital: "Vienna", Tier: domain.TierMedium},
	{Country: "Belgium", Capital: "Brussels", Tier: domain.TierMedium},
	{Country: "Denmark", Capital: "Copenhagen", Tier: domain.TierMedium},
	{Country: "Finland", Capital: "Helsinki", Tier: domain.TierMedium},
	{Country: "Israel", Capital: "Tel Aviv", Tier: domain.TierMedium},
	{Country: "Palestine", Capital: "Jerusalem", Tier: domain.TierMedium},
	{Country: "Singapore", Capital: "Singapore", Tier: domain.TierMedium},
	{Country: "United Arab Emirates", Capital: "Abu Dhabi", Tier: domain.TierMedium},
	{Country: "Czech Republic", Capital: "Prague", Tier: domain.TierMedium},
	{Country: "Hungary", Capital: "Budapest", Tier: domain.TierMedium},
	{Country: "Indonesia", Capital: "Jakarta", Tier: domain.TierMedium},
	{Country: "Malaysia", Capital: "Kuala Lumpur", Tier: domain.TierMedium},
	{Country: "Philippines", Capital: "Manila", Tier: domain.TierMedium},
	{Country: "Romania", Capital: "Bucharest", Tier: domain.TierMedium},
	{Country: "Chile", Capital: "Santiago", Tier: domain.TierMedium},
	{Country: "Colombia", Capital: "Bogota", Tier: domain.TierMedium},
	{Country: "Peru", Capital: "Lima", Tier: domain.TierMedium},
	{Country: "Venezuela", Capital: "Caracas", Tier: domain.TierMedium},

	// hard
	{Country: "Afghanistan", Capital: "Kabul", Tier: domain.TierHard},
	{Country: "Albania", Capital: "Tirana", Tier: domain.TierHard},
	{Country: "Algeria", Capital: "Algiers", Tier: domain.TierHard},
	{Country: "Andorra", Capital: "Andorra la Vella", Tier: domain.TierHard},
	{Country: "Angola", Capital: "Luanda", Tier: domain.TierHard},
	{Country: "Antigua and Barbuda", Capital: "Saint John's", Tier: domain.TierHard},
	{Country: "Armenia", Capital: "Yerevan", Tier: domain.TierHard},
	{Country: "Azerbaijan", Capital: "Baku", Tier: domain.TierHard},
	{Country: "The Bahamas", Capital: "Nassau", Tier: domain.TierHard},
	{Country: "Bahrain", Capital: "Manama", Tier: domain.TierHard},
	{Country: "Bangladesh", Capital: "Dhaka", Tier: domain.TierHard},
	{Country: "Barbados", Capital: "Bridgetown", Tier: domain.TierHard},
	{Country: "Belarus", Capital: "Minsk", Tier: domain.TierHard},
	{Country: "Belize", Capital: "Belmopan", Tier: domain.TierHard},
	{Country: "Benin", Capital: "Porto-Novo", Tier: domain.TierHard},
	{Country: "Bhutan", Capital: "Thimphu", Tier: domain.TierHard},
	{Country: "Bolivia", Capital: "La Paz", Tier: domain.TierHard},
	{Country: "Bosnia and Herzegovina", Capital: "Sarajevo", Tier: domain.TierHard},
	{Country: "Botswana", Capital: "Gaborone", Tier: domain.TierHard},
	{Country: "Brunei", Capital: "Bandar Seri Begawan", Tier: domain.TierHard},
	{Country: "Bulgaria", Capital: "Sofia", Tier: domain.TierHard},
	{Country: "Burkina Faso", Capital: "Ouagadougou", Tier: domain.TierHard},
	{Country: "Burundi", Capital: "Gitega", Tier: domain.TierHard},
	{Country: "Cambodia", Capital: "Phnom Penh", Tier: domain.TierHard},
	{Country: "Cameroon", Capital: "Yaounde", Tier: domain.TierHard},
	{Country: "Cape Verde", Capital: "Praia", Tier: domain.TierHard},
	{Country: "Central African Republic", Capital: "Bangui", Tier: domain.TierHard},
	{Country: "Chad", Capital: "N'Djamena", Tier: domain.TierHard},
	{Country: "Comoros", Capital: "Moroni", Tier: domain.TierHard},
	{Country: "Congo, Republic of the", Capital: "Brazzaville", Tier: domain.TierHard},
	{Country: "Congo, Democratic Republic of the", Capital: "Kinshasa", Tier: domain.TierHard},
	{Country: "Costa Rica", Capital: "San Jose", Tier: domain.TierHard},
	{Country: "Cote d'Ivoire", Capital: "Yamoussoukro", Tier: domain.TierHard},
	{Country: "Croatia", Capital: "Zagreb", Tier: domain.TierHard},
	{Country: "Cuba", Capital: "Havana", Tier: domain.TierHard},
	{Country: "Cyprus", Capital: "Nicosia", Tier: domain.TierHard},
	{Country: "Djibouti", Capital: "Djibouti", Tier: domain.TierHard},
	{Country: "Dominica", Capital: "Roseau", Tier: domain.TierHard},
	{Country: "Dominican Republic", Capital: "Santo Domingo", Tier: domain.TierHard},
	{Country: "East Timor", Capital: "Dili", Tier: domain.TierHard},
	{Country: "Ecuador", Capital: "Quito", Tier: domain.TierHard},
	{Country: "El Salvador", Capital: "San Salvador", Tier: domain.TierHard},
	{Country: "Equatorial Guinea", Capital: "Malabo", Tier: domain.TierHard},
	{Country: "Eritrea", Capital: "Asmara", Tier: domain.TierHard},
	{Country: "Estonia", Capital: "Tallinn", Tier: domain.TierHard},
	{Country: "Ethiopia", Capital: "Addis Ababa", Tier: domain.TierHard},
	{Country: "Fiji", Capital: "Suva", Tier: domain.TierHard},
	{Country: "Gabon", Capital: "Libreville", Tier: domain.TierHard},
	{Country: "The Gambia", Capital: "Banjul", Tier: domain.TierHard},
	{Country: "Georgia", Capital: "Tbilisi", Tier: domain.TierHard},
	{Country: "Ghana", Capital: "Accra", Tier: domain.TierHard},
	{Country: "Grenada", Capital: "Saint George's", Tier: domain.TierHard},
	{Country: "Guatemala", Capital: "Guatemala City", Tier: domain.TierHard},
	{Country: "Guinea", Capital: "Conakry", Tier: domain.TierHard},
	{Country: "Guinea-Bissau", Capital: "Bissau", Tier: domain.TierHard},
	{Country: "Guyana", Capital: "Georgetown", Tier: domain.TierHard},
	{Country: "Haiti", Capital: "Port-au-Prince", Tier: domain.TierHard},
	{Country: "Honduras", Capital: "Tegucigalpa", Tier: domain.TierHard},
	{Country: "Iceland", Capital: "Reykjavik", Tier: domain.TierHard},
	{Country: "Iran", Capital: "Tehran", Tier: domain.TierHard},
	{Country: "Iraq", Capital: "Baghdad", Tier: domain.TierHard},
	{Country: "Jamaica", Capital: "Kingston", Tier: domain.TierHard},
	{Country: "Jordan", Capital: "Amman", Tier: domain.TierHard},
	{Country: "Kazakhstan", Capital: "Nur-Sultan", Tier: domain.TierHard},
	{Country: "Kenya", Capital: "Nairobi", Tier: domain.TierHard},
	{Country: "Kiribati", Capital: "Tarawa Atoll", Tier: domain.TierHard},
	{Country: "North Korea", Capital: "Pyongyang", Tier: domain.TierHard},
	{Country: "Kosovo", Capital: "Pristina", Tier: domain.TierHard},
	{Country: "Kuwait", Capital: "Kuwait City", Tier: domain.TierHard},
	{Country: "Kyrgyzstan", Capital: "Bishkek", Tier: domain.TierHard},
	{Country: "Laos", Capital: "Vientiane", Tier: domain.TierHard},
	{Country: "Latvia", Capital: "Riga", Tier: domain.TierHard},
	{Country: "Lebanon", Capital: "Beirut", Tier: domain.TierHard},
	{Country: "Lesotho", Capital: "Maseru", Tier: domain.TierHard},
	{Country: "Liberia", Capital: "Monrovia", Tier: domain.TierHard},
	{Country: "Libya", Capital: "Tripoli", Tier: domain.TierHard},
	{Country: "Liechtenstein", Capital: "Vaduz", Tier: domain.TierHard},
	{Country: "Lithuania", Capital: "Vilnius", Tier: domain.TierHard},
	{Country: "Luxembourg", Capital: "Luxembourg", Tier: domain.TierHard},
	{Country: "Macedonia", Capital: "Skopje", Tier: domain.TierHard},
	{Country: "Madagascar", Capital: "Antananarivo", Tier: domain.TierHard},
	{Country: "Malawi", Capital: "Lilongwe", Tier: domain.TierHard},
	{Country: "Maldives", Capital: "Male", Tier: domain.TierHard},
	{Country: "Mali", Capital: "Bamako", Tier: domain.TierHard},
	{Country: "Malta", Capital: "Valletta", Tier: domain.TierHard},
	{Country: "Marshall Islands", Capital: "Majuro", Tier: domain.TierHard},
	{Country: "Mauritania", Capital: "Nouakchott", Tier: domain.TierHard},
	{Country: "Mauritius", Capital: "Port Louis", Tier: domain.TierHard},
	{Country: "Micronesia", Capital: "Palikir", Tier: domain.TierHard},
	{Country: "Moldova", Capital: "Chisinau", Tier: domain.TierHard},
	{Country: "Monaco", Capital: "Monaco", Tier: domain.TierHard},
	{Country: "Mongolia", Capital: "Ulaanbaatar", Tier: domain.TierHard},
	{Country: "Montenegro", Capital: "Podgorica", Tier: domain.TierHard},
	{Country: "Morocco", Capital: "Rabat", Tier: domain.TierHard},
	{Country: "Mozambique", Capital: "Maputo", Tier: domain.TierHard},
	{Country: "Myanmar", Capital: "Naypyidaw", Tier: domain.TierHard},
	{Country: "Namibia", Capital: "Windhoek", Tier: domain.TierHard},
	{Country: "Nauru", Capital: "Yaren District", Tier: domain.TierHard},
	{Country: "Nepal", Capital: "Kathmandu", Tier: domain.TierHard},
	{Country: "Nicaragua", Capital: "Managua", Tier: domain.TierHard},
	{Country: "Niger", Capital: "Niamey", Tier: domain.TierHard},
	{Country: "Nigeria", Capital: "Abuja", Tier: domain.TierHard},
	{Country: "Oman", Capital: "Muscat", Tier: domain.TierHard},
	{Country: "Pakistan", Capital: "Islamabad", Tier: domain.TierHard},
	{Country: "Palau", Capital: "Melekeok", Tier: domain.TierHard},
	{Country: "Panama", Capital: "Panama City", Tier: domain.TierHard},
	{Country: "Papua New Guinea", Capital: "Port Moresby", Tier: domain.TierHard},
	{Country: "Paraguay", Capital: "Asuncion", Tier: domain.TierHard},
	{Country: "Qatar", Capital: "Doha", Tier: domain.TierHard},
	{Country: "Rwanda", Capital: "Kigali", Tier: domain.TierHard},
	{Country: "Saint Kitts and Nevis", Capital: "Basseterre", Tier: domain.TierHard},
	{Country: "Saint Lucia", Capital: "Castries", Tier: domain.TierHard},
	{Country: "Saint Vincent and the Grenadines", Capital: "Kingstown", Tier: domain.TierHard},
	{Country: "Samoa", Capital: "Apia", Tier: domain.TierHard},
	{Country: "San Marino", Capital: "San Marino", Tier: domain.TierHard},
	{Country: "Sao Tome and Principe", Capital: "Sao Tome", Tier: domain.TierHard},
	{Country: "Senegal", Capital: "Dakar", Tier: domain.TierHard},
	{Country: "Serbia", Capital: "Belgrade", Tier: domain.TierHard},
	{Country: "Seychelles", Capital: "Victoria", Tier: domain.TierHard},
	{Country: "Sierra Leone", Capital: "Freetown", Tier: domain.TierHard},
	{Country: "Slovakia", Capital: "Bratislava", Tier: domain.TierHard},
	{Country: "Slovenia", Capital: "Ljubljana", Tier: domain.TierHard},
	{Country: "Solomon Islands", Capital: "Honiara", Tier: domain.TierHard},
	{Country: "Somalia", Capital: "Mogadishu", Tier: domain.TierHard},
	{Country: "South Sudan", Capital: "Juba", Tier: domain.TierHard},
	{Country: "Sri Lanka", Capital: "Colombo", Tier: domain.TierHard},
	{Country: "Sudan", Capital: "Khartoum", Tier: domain.TierHard},
	{Country: "Suriname", Capital: "Paramaribo", Tier: domain.TierHard},
	{Country: "Swaziland", Capital: "Mbabane", Tier: domain.TierHard},
	{Country: "Syria", Capital: "Damascus", Tier: domain.TierHard},
	{Country: "Taiwan", Capital: "Taipei", Tier: domain.TierHard},
	{Country: "Tajikistan", Capital: "Dushanbe", Tier: domain.TierHard},
	{Country: "Tanzania", Capital: "Dodoma", Tier: domain.TierHard},
	{Country: "Togo", Capital: "Lome", Tier: domain.TierHard},
	{Country: "Tonga", Capital: "Nuku'alofa", Tier: domain.TierHard},
	{Country: "Trinidad and Tobago", Capital: "Port-of-Spain", Tier: domain.TierHard},
	{Country: "Tunisia", Capital: "Tunis", Tier: domain.TierHard},
	{Country: "Turkmenistan", Capital: "Ashgabat", Tier: domain.TierHard},
	{Country: "Tuvalu", Capital: "Funafuti", Tier: domain.TierHard},
	{Country: "Uganda", Capital: "Kampala", Tier: domain.TierHard},
	{Country: "Uruguay", Capital: "Montevideo", Tier: domain.TierHard},
	{Country: "Uzbekistan", Capital: "Tashkent", Tier: domain.TierHard},
	{Country: "Vanuatu", Capital: "Port-Vila", Tier: domain.TierHard},
	{Country: "Vatican City", Capital: "Vatican City", Tier: domain.TierHard},
	{Country: "Yemen", Capital: "Sanaa", Tier: domain.TierHard},
	{Country: "Zambia", Capital: "Lusaka", Tier: domain.TierHard},
	{Country: "Zimbabwe", Capital: "Harare", Tier: domain.TierHard},
}

// Capitals returns a copy of the built-in catalog.
func Capitals() []domain.CapitalFact {
	out := make([]domain.CapitalFact, len(capitals))
	copy(out, capitals)
	return out
}
