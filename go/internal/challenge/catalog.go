package challenge

import (
	"math/rand/v2"
)

// SupportedLanguages is the set of languages players may submit in.
var SupportedLanguages = []string{
	"javascript", "python", "java", "cpp", "c", "csharp", "go", "rust",
}

// IsSupported reports whether a language can be used for submissions.
func IsSupported(language string) bool {
	for _, l := range SupportedLanguages {
		if l == language {
			return true
		}
	}
	return false
}

// Catalog is the built-in challenge library.
type Catalog struct {
	challenges []*Challenge
}

// NewCatalog returns the built-in library.
func NewCatalog() *Catalog {
	return &Catalog{challenges: builtins}
}

// All returns short metadata for every catalog entry.
func (c *Catalog) All() []Public {
	out := make([]Public, 0, len(c.challenges))
	for _, ch := range c.challenges {
		out = append(out, ch.Public())
	}
	return out
}

// ByID looks up a challenge, returning nil if unknown.
func (c *Catalog) ByID(id string) *Challenge {
	for _, ch := range c.challenges {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// Random picks one challenge uniformly at random.
func (c *Catalog) Random() *Challenge {
	return c.challenges[rand.IntN(len(c.challenges))]
}

var builtins = []*Challenge{
	{
		ID:         "two-sum",
		Title:      "Two Sum",
		Difficulty: "Easy",
		TimeLimit:  300,
		Description: `Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.

You may assume that each input would have exactly one solution, and you may not use the same element twice.

You can return the answer in any order.`,
		Examples: []Example{
			{
				Input:       "nums = [2,7,11,15], target = 9",
				Output:      "[0,1]",
				Explanation: "Because nums[0] + nums[1] == 9, we return [0, 1].",
			},
			{
				Input:  "nums = [3,2,4], target = 6",
				Output: "[1,2]",
			},
		},
		Constraints: []string{
			"2 <= nums.length <= 10^4",
			"-10^9 <= nums[i] <= 10^9",
			"-10^9 <= target <= 10^9",
			"Only one valid answer exists.",
		},
		TestCases: []TestCase{
			{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"},
			{Input: "3 2 4\n6", ExpectedOutput: "1 2"},
			{Input: "3 3\n6", ExpectedOutput: "0 1"},
			{Input: "1 5 3 7 9\n12", ExpectedOutput: "2 4"},
			{Input: "-1 -2 -3 -4 -5\n-8", ExpectedOutput: "2 4"},
		},
		StarterCode: map[string]string{
			"javascript": `function twoSum(nums, target) {
    // Your code here
}

// Read input
const input = require('fs').readFileSync(0, 'utf-8').trim().split('\n');
const nums = input[0].split(' ').map(Number);
const target = parseInt(input[1]);

const result = twoSum(nums, target);
console.log(result.join(' '));`,
			"python": `def two_sum(nums, target):
    # Your code here
    pass

# Read input
import sys
lines = sys.stdin.read().strip().split('\n')
nums = list(map(int, lines[0].split()))
target = int(lines[1])

result = two_sum(nums, target)
print(' '.join(map(str, result)))`,
			"cpp": `#include <iostream>
#include <vector>
#include <sstream>
using namespace std;

vector<int> twoSum(vector<int>& nums, int target) {
    // Your code here
}

int main() {
    string line;
    getline(cin, line);
    istringstream iss(line);
    vector<int> nums;
    int num;
    while (iss >> num) nums.push_back(num);

    int target;
    cin >> target;

    vector<int> result = twoSum(nums, target);
    cout << result[0] << " " << result[1] << endl;
    return 0;
}`,
			"java": `import java.util.*;

public class Solution {
    public static int[] twoSum(int[] nums, int target) {
        // Your code here
        return new int[]{};
    }

    public static void main(String[] args) {
        Scanner sc = new Scanner(System.in);
        String[] numsStr = sc.nextLine().split(" ");
        int[] nums = new int[numsStr.length];
        for (int i = 0; i < numsStr.length; i++) {
            nums[i] = Integer.parseInt(numsStr[i]);
        }
        int target = sc.nextInt();

        int[] result = twoSum(nums, target);
        System.out.println(result[0] + " " + result[1]);
    }
}`,
		},
	},
	{
		ID:         "reverse-string",
		Title:      "Reverse String",
		Difficulty: "Easy",
		TimeLimit:  180,
		Description: `Write a function that reverses a string. The input string is given as an array of characters s.

You must do this by modifying the input array in-place with O(1) extra memory.`,
		Examples: []Example{
			{
				Input:  `s = ["h","e","l","l","o"]`,
				Output: `["o","l","l","e","h"]`,
			},
			{
				Input:  `s = ["H","a","n","n","a","h"]`,
				Output: `["h","a","n","n","a","H"]`,
			},
		},
		Constraints: []string{
			"1 <= s.length <= 10^5",
			"s[i] is a printable ascii character.",
		},
		TestCases: []TestCase{
			{Input: "hello", ExpectedOutput: "olleh"},
			{Input: "Hannah", ExpectedOutput: "hannaH"},
			{Input: "a", ExpectedOutput: "a"},
			{Input: "racecar", ExpectedOutput: "racecar"},
			{Input: "Codeduel", ExpectedOutput: "leudedoC"},
		},
		StarterCode: map[string]string{
			"javascript": `function reverseString(s) {
    // Your code here
}

const input = require('fs').readFileSync(0, 'utf-8').trim();
console.log(reverseString(input));`,
			"python": `def reverse_string(s):
    # Your code here
    pass

import sys
s = sys.stdin.read().strip()
print(reverse_string(s))`,
			"cpp": `#include <iostream>
#include <string>
using namespace std;

string reverseString(string s) {
    // Your code here
}

int main() {
    string s;
    cin >> s;
    cout << reverseString(s) << endl;
    return 0;
}`,
			"java": `import java.util.*;

public class Solution {
    public static String reverseString(String s) {
        // Your code here
        return "";
    }

    public static void main(String[] args) {
        Scanner sc = new Scanner(System.in);
        String s = sc.nextLine();
        System.out.println(reverseString(s));
    }
}`,
		},
	},
	{
		ID:         "palindrome-number",
		Title:      "Palindrome Number",
		Difficulty: "Easy",
		TimeLimit:  240,
		Description: `Given an integer x, return true if x is a palindrome, and false otherwise.

An integer is a palindrome when it reads the same backward as forward.`,
		Examples: []Example{
			{
				Input:       "x = 121",
				Output:      "true",
				Explanation: "121 reads as 121 from left to right and from right to left.",
			},
			{
				Input:       "x = -121",
				Output:      "false",
				Explanation: "From left to right, it reads -121. From right to left, it becomes 121-.",
			},
			{
				Input:       "x = 10",
				Output:      "false",
				Explanation: "Reads 01 from right to left.",
			},
		},
		Constraints: []string{
			"-2^31 <= x <= 2^31 - 1",
		},
		TestCases: []TestCase{
			{Input: "121", ExpectedOutput: "true"},
			{Input: "-121", ExpectedOutput: "false"},
			{Input: "10", ExpectedOutput: "false"},
			{Input: "0", ExpectedOutput: "true"},
			{Input: "12321", ExpectedOutput: "true"},
		},
		StarterCode: map[string]string{
			"javascript": `function isPalindrome(x) {
    // Your code here
}

const input = parseInt(require('fs').readFileSync(0, 'utf-8').trim());
console.log(isPalindrome(input));`,
			"python": `def is_palindrome(x):
    # Your code here
    pass

import sys
x = int(sys.stdin.read().strip())
print('true' if is_palindrome(x) else 'false')`,
			"cpp": `#include <iostream>
using namespace std;

bool isPalindrome(int x) {
    // Your code here
}

int main() {
    int x;
    cin >> x;
    cout << (isPalindrome(x) ? "true" : "false") << endl;
    return 0;
}`,
			"java": `import java.util.*;

public class Solution {
    public static boolean isPalindrome(int x) {
        // Your code here
        return false;
    }

    public static void main(String[] args) {
        Scanner sc = new Scanner(System.in);
        int x = sc.nextInt();
        System.out.println(isPalindrome(x));
    }
}`,
		},
	},
}
